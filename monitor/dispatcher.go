// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package monitor

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/chaindata"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/fault"
)

// Dispatcher - per block entry point routing on the current chain id
type Dispatcher struct {
	log         *logger.L
	routes      *chain.RouteTable
	reader      chaindata.Reader
	snapshotter *EscrowSnapshotter
	checker     *SolvencyChecker
}

// NewDispatcher - create a dispatcher over a fixed route table
func NewDispatcher(log *logger.L, routes *chain.RouteTable, reader chaindata.Reader, querier facts.Querier, source string) *Dispatcher {
	return &Dispatcher{
		log:         log,
		routes:      routes,
		reader:      reader,
		snapshotter: NewEscrowSnapshotter(log, routes, reader),
		checker:     NewSolvencyChecker(log, routes, reader, querier, source),
	}
}

// Evaluate - run the step for the current chain and report how it ended
//
// never panics; a recovered panic is reported as Failed
func (d *Dispatcher) Evaluate(ctx context.Context, block Block) (outcome Outcome) {
	defer func() {
		if r := recover(); nil != r {
			d.log.Criticalf("block: %d  recovered: %v", block.Number, r)
			outcome = Outcome{
				Step:        outcome.Step,
				ChainID:     outcome.ChainID,
				BlockNumber: block.Number,
				Status:      Failed,
				Err:         fmt.Errorf("%v: %w", r, fault.PanicRecovered),
			}
			if "" == outcome.Step {
				outcome.Step = StepDispatch
			}
		}
	}()

	chainID, err := d.reader.ChainID(ctx)
	if nil != err {
		d.log.Errorf("block: %d  chain id error: %s", block.Number, err)
		return Outcome{
			Step:        StepDispatch,
			BlockNumber: block.Number,
			Status:      Failed,
			Err:         err,
		}
	}

	if d.routes.IsAnchor(chainID) {
		outcome = d.snapshotter.Snapshot(ctx, block.Number)
	} else {
		outcome = d.checker.Check(ctx, block.Number, chainID)
	}
	outcome.ChainID = chainID

	for i := range outcome.Alerts {
		outcome.Alerts[i].ChainID = chainID
		outcome.Alerts[i].BlockNumber = block.Number
	}

	if Failed == outcome.Status {
		d.log.Errorf("block: %d  chain: %s  step: %s  error: %s", block.Number, chainID, outcome.Step, outcome.Err)
	} else {
		d.log.Infof("block: %d  chain: %s  step: %s  status: %s  alerts: %d", block.Number, chainID, outcome.Step, outcome.Status, len(outcome.Alerts))
	}
	return outcome
}

// Handle - alerts for a block, never an error
func (d *Dispatcher) Handle(ctx context.Context, block Block) []alert.Alert {
	alerts := d.Evaluate(ctx, block).Alerts
	if nil == alerts {
		return []alert.Alert{}
	}
	return alerts
}
