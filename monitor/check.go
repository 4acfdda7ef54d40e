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
	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/facts"
)

// SolvencyChecker - compares dependent supply with the escrow snapshot of the same block
type SolvencyChecker struct {
	log     *logger.L
	routes  *chain.RouteTable
	reader  chaindata.Reader
	querier facts.Querier
	source  string
}

// NewSolvencyChecker - create a checker trusting snapshots from source
func NewSolvencyChecker(log *logger.L, routes *chain.RouteTable, reader chaindata.Reader, querier facts.Querier, source string) *SolvencyChecker {
	return &SolvencyChecker{
		log:     log,
		routes:  routes,
		reader:  reader,
		querier: querier,
		source:  source,
	}
}

// Check - evaluate one dependent chain block
//
// a missing snapshot is not an error and is not retried
func (c *SolvencyChecker) Check(ctx context.Context, blockNumber uint64, chainID chain.ID) Outcome {
	outcome := Outcome{
		Step:        StepCheck,
		ChainID:     chainID,
		BlockNumber: blockNumber,
	}

	route, ok := c.routes.Lookup(chainID)
	if !ok {
		c.log.Warnf("block: %d  no route for chain: %d", blockNumber, chainID)
		outcome.Status = UnknownChain
		return outcome
	}

	var supply *big.Int
	var page facts.Page

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(func() error {
		var err error
		supply, err = chaindata.TotalSupply(gctx, c.reader, route.Token, blockNumber)
		return err
	}))
	g.Go(guard(func() error {
		var err error
		page, err = c.querier.Query(gctx, facts.ForBlock(constants.SnapshotAlertID, c.source, blockNumber))
		return err
	}))
	err := g.Wait()
	if nil != err {
		outcome.Status = Failed
		outcome.Err = err
		return outcome
	}

	fact, found := factForBlock(page, blockNumber)
	if !found {
		c.log.Debugf("block: %d  %s: no snapshot yet", blockNumber, route.Name)
		outcome.Status = NoFact
		return outcome
	}

	escrow, err := fact.Amount(route.EscrowField)
	if nil != err {
		c.log.Warnf("block: %d  %s: %s", blockNumber, route.Name, err)
		outcome.Status = MalformedFact
		outcome.Err = err
		return outcome
	}

	c.log.Debugf("block: %d  %s escrow: %s  supply: %s", blockNumber, route.Name, escrow, supply)

	if escrow.Cmp(supply) >= 0 {
		outcome.Status = Solvent
		return outcome
	}

	outcome.Status = Emitted
	outcome.Alerts = []alert.Alert{alert.NewInsolvency(route.Name, escrow, supply)}
	return outcome
}

// only a fact published for exactly this block may be used
func factForBlock(page facts.Page, blockNumber uint64) (facts.Fact, bool) {
	for _, f := range page.Facts {
		if blockNumber == f.BlockNumber && constants.SnapshotAlertID == f.AlertID {
			return f, true
		}
	}
	return facts.Fact{}, false
}
