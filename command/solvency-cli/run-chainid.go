// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"
)

type chainIDReply struct {
	ChainID uint64 `json:"chainId"`
	Name    string `json:"name"`
	Head    uint64 `json:"head"`
}

func runChainID(c *cli.Context) error {
	m := getMetadata(c)

	client, err := dial(m)
	if nil != err {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	id, err := client.ChainID(ctx)
	if nil != err {
		return err
	}
	head, err := client.BlockNumber(ctx)
	if nil != err {
		return err
	}

	return printJson(m.w, chainIDReply{
		ChainID: uint64(id),
		Name:    id.String(),
		Head:    head,
	})
}
