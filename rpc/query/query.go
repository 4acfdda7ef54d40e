// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/metrics"
	"github.com/bridgewatch/solvencyd/rpc/ratelimit"
)

const (
	rateLimitFacts = 200
	rateBurstFacts = facts.MaximumFirst

	queryTimeout = 10 * time.Second
)

// Facts - type for RPC calls
type Facts struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Querier facts.Querier
}

// New - serve queries from a local fact source
func New(log *logger.L, querier facts.Querier) *Facts {
	return &Facts{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitFacts, rateBurstFacts),
		Querier: querier,
	}
}

// Query - one page of facts
//
// the limiter is charged for the page size requested
func (f *Facts) Query(arguments *facts.Query, reply *facts.Page) error {

	q, err := arguments.Normalise()
	if nil != err {
		metrics.FactQueries.WithLabelValues("invalid").Inc()
		return err
	}

	if err := ratelimit.LimitN(f.Limiter, q.First, facts.MaximumFirst); nil != err {
		metrics.FactQueries.WithLabelValues("limited").Inc()
		return err
	}

	f.Log.Debugf("query: %s  source: %q  blocks: %d to %d", q.AlertID, q.Source, q.StartBlock, q.EndBlock)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	page, err := f.Querier.Query(ctx, q)
	if nil != err {
		f.Log.Errorf("query: %s  error: %s", q.AlertID, err)
		metrics.FactQueries.WithLabelValues("error").Inc()
		return err
	}

	metrics.FactQueries.WithLabelValues("ok").Inc()
	*reply = page
	return nil
}
