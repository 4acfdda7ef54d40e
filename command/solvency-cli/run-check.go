// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/monitor"
	"github.com/bridgewatch/solvencyd/storage"
)

// the error is dropped when an outcome is marshalled
type checkReply struct {
	monitor.Outcome
	Error string `json:"error,omitempty"`
}

func runCheck(c *cli.Context) error {
	m := getMetadata(c)

	botID := c.String("bot-id")
	if "" == botID {
		botID = constants.PublisherBotID
	}

	var querier facts.Querier
	switch backend := c.String("facts"); backend {
	case "graphql":
		q, err := facts.NewGraphQLClient(logger.New("graphql"), c.String("facts-url"), m.timeout)
		if nil != err {
			return err
		}
		querier = q

	case "rpc":
		q, err := facts.NewRPCClient(logger.New("factrpc"), c.String("facts-url"), m.timeout)
		if nil != err {
			return err
		}
		defer q.Close()
		querier = q

	case "local":
		err := openDatabase(m, c.String("database"))
		if nil != err {
			return err
		}
		defer storage.Finalise()
		querier = facts.NewStore(logger.New("facts"), storage.Pool.Facts)

	default:
		return fmt.Errorf("unsupported fact backend: %q", backend)
	}

	client, err := dial(m)
	if nil != err {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	blockNumber := c.Uint64("block")
	if 0 == blockNumber {
		blockNumber, err = client.BlockNumber(ctx)
		if nil != err {
			return err
		}
	}

	dispatcher := monitor.NewDispatcher(logger.New("monitor"), chain.DefaultTable(), client, querier, botID)
	outcome := dispatcher.Evaluate(ctx, monitor.Block{Number: blockNumber})

	reply := checkReply{
		Outcome: outcome,
	}
	if nil != outcome.Err {
		reply.Error = outcome.Err.Error()
	}
	return printJson(m.w, reply)
}
