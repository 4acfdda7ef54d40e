// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package monitor

import (
	"context"
	"math/big"

	"github.com/bitmark-inc/logger"
	"golang.org/x/sync/errgroup"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/chaindata"
)

// EscrowSnapshotter - records every escrow balance on the anchor chain
type EscrowSnapshotter struct {
	log    *logger.L
	routes *chain.RouteTable
	reader chaindata.Reader
}

// NewEscrowSnapshotter - create a snapshotter
func NewEscrowSnapshotter(log *logger.L, routes *chain.RouteTable, reader chaindata.Reader) *EscrowSnapshotter {
	return &EscrowSnapshotter{
		log:    log,
		routes: routes,
		reader: reader,
	}
}

// Snapshot - read all escrows at blockNumber and produce the info alert
func (s *EscrowSnapshotter) Snapshot(ctx context.Context, blockNumber uint64) Outcome {
	routes := s.routes.Routes()
	token := s.routes.AnchorToken()
	amounts := make([]*big.Int, len(routes))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range routes {
		i, r := i, r
		g.Go(guard(func() error {
			balance, err := chaindata.BalanceOf(gctx, s.reader, token, r.Escrow, blockNumber)
			if nil != err {
				return err
			}
			amounts[i] = balance
			return nil
		}))
	}
	err := g.Wait()
	if nil != err {
		return Outcome{
			Step:        StepSnapshot,
			BlockNumber: blockNumber,
			Status:      Failed,
			Err:         err,
		}
	}

	balances := make([]alert.EscrowBalance, len(routes))
	for i, r := range routes {
		balances[i] = alert.EscrowBalance{
			Network: r.Name,
			Field:   r.EscrowField,
			Balance: amounts[i],
		}
		s.log.Debugf("block: %d  %s escrow: %s", blockNumber, r.Name, amounts[i])
	}

	return Outcome{
		Step:        StepSnapshot,
		BlockNumber: blockNumber,
		Status:      Emitted,
		Alerts:      []alert.Alert{alert.NewEscrowSnapshot(balances)},
	}
}
