// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockwatch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/metrics"
	"github.com/bridgewatch/solvencyd/monitor"
)

// HeadReader - source of the current block number
type HeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Evaluator - per block evaluation
type Evaluator interface {
	Evaluate(ctx context.Context, block monitor.Block) monitor.Outcome
}

// Watcher - polls for new blocks and evaluates each one in order
type Watcher struct {
	log        *logger.L
	head       HeadReader
	evaluator  Evaluator
	emitter    alert.Emitter
	interval   time.Duration
	maxCatchUp uint64
	chain      string // only used by the polling goroutine

	last    uint64 // atomic
	started int32  // atomic
}

// New - maxCatchUp bounds the blocks evaluated in a single poll
func New(log *logger.L, head HeadReader, evaluator Evaluator, emitter alert.Emitter, interval time.Duration, maxCatchUp uint64) *Watcher {
	if 0 == maxCatchUp {
		maxCatchUp = 1
	}
	return &Watcher{
		log:        log,
		head:       head,
		evaluator:  evaluator,
		emitter:    emitter,
		interval:   interval,
		maxCatchUp: maxCatchUp,
	}
}

// Last - the most recent block evaluated, zero before the first
func (w *Watcher) Last() uint64 {
	return atomic.LoadUint64(&w.last)
}

// Run - poll until shutdown
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-shutdown
		cancel()
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			w.Poll(ctx)
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

// Poll - evaluate every block since the last poll
//
// the first poll evaluates only the head, later polls catch up at
// most maxCatchUp blocks and skip older ones
func (w *Watcher) Poll(ctx context.Context) {
	head, err := w.head.BlockNumber(ctx)
	if nil != err {
		w.log.Errorf("block number error: %s", err)
		return
	}

	from := head
	if 0 != atomic.LoadInt32(&w.started) {
		last := w.Last()
		if head <= last {
			return
		}
		from = last + 1
		if head-last > w.maxCatchUp {
			from = head - w.maxCatchUp + 1
			w.log.Warnf("skipping blocks: %d to %d", last+1, from-1)
			w.skipped(from - last - 1)
		}
	}

	for n := from; n <= head; n += 1 {
		if nil != ctx.Err() {
			return
		}
		w.evaluate(ctx, n)
		atomic.StoreUint64(&w.last, n)
		atomic.StoreInt32(&w.started, 1)
	}
}

// labelled with the chain of the previous evaluation
func (w *Watcher) skipped(count uint64) {
	metrics.BlocksSkipped.WithLabelValues(w.chain).Add(float64(count))
}

func (w *Watcher) evaluate(ctx context.Context, n uint64) {
	start := time.Now()
	outcome := w.evaluator.Evaluate(ctx, monitor.Block{Number: n})

	chainLabel := outcome.ChainID.String()
	w.chain = chainLabel
	metrics.BlocksEvaluated.WithLabelValues(chainLabel).Inc()
	metrics.Outcomes.WithLabelValues(chainLabel, outcome.Step, outcome.Status.String()).Inc()
	metrics.EvaluationLatency.WithLabelValues(chainLabel).Observe(time.Since(start).Seconds())
	metrics.Head.WithLabelValues(chainLabel).Set(float64(n))

	if nil == w.emitter {
		return
	}
	for _, a := range outcome.Alerts {
		err := w.emitter.Emit(ctx, a)
		if nil != err {
			w.log.Errorf("block: %d  alert: %s  emit error: %s", n, a.AlertID, err)
		}
	}
}
