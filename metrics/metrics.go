// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "solvencyd"

// block evaluation, labelled by chain id
var (
	BlocksEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "monitor",
		Name:      "blocks_evaluated_total",
		Help:      "Total blocks evaluated",
	}, []string{"chain"})

	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "monitor",
		Name:      "outcomes_total",
		Help:      "Evaluation outcomes by step and status",
	}, []string{"chain", "step", "status"})

	EvaluationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "monitor",
		Name:      "evaluation_duration_seconds",
		Help:      "Time to evaluate one block",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"chain"})

	BlocksSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "blockwatch",
		Name:      "blocks_skipped_total",
		Help:      "Blocks not evaluated because the head moved too far in one poll",
	}, []string{"chain"})

	Head = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "blockwatch",
		Name:      "head_block",
		Help:      "Last block number seen",
	}, []string{"chain"})
)

// alert delivery
var (
	AlertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "alerts_emitted_total",
		Help:      "Alerts emitted by severity",
	}, []string{"severity"})

	AlertsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "alerts_duplicate_total",
		Help:      "Alerts not re-emitted because they were seen recently",
	})

	EmitErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "publish",
		Name:      "emit_errors_total",
		Help:      "Alerts that could not be delivered",
	})
)

// fact storage
var (
	FactsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "facts",
		Name:      "recorded_total",
		Help:      "Facts written to the local store by origin",
	}, []string{"origin"})

	FactQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "facts",
		Name:      "rpc_queries_total",
		Help:      "Fact queries served over JSON-RPC",
	}, []string{"result"})
)
