// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/metrics"
)

// FactRecorder - append-only fact sink
type FactRecorder interface {
	Record(facts.Fact) error
}

// Recorder - keeps emitted snapshot alerts as local facts
type Recorder struct {
	log     *logger.L
	store   FactRecorder
	alertID string
	source  string
}

// NewRecorder - record alerts with alertID, attributed to source
func NewRecorder(log *logger.L, store FactRecorder, alertID string, source string) *Recorder {
	return &Recorder{
		log:     log,
		store:   store,
		alertID: alertID,
		source:  source,
	}
}

// Emit - other alert ids are ignored, a repeat for a recorded block is not an error
func (r *Recorder) Emit(_ context.Context, a alert.Alert) error {
	if r.alertID != a.AlertID {
		return nil
	}
	err := r.store.Record(facts.FromAlert(a, r.source))
	if fault.IsErrExists(err) {
		r.log.Debugf("fact for block: %d already recorded", a.BlockNumber)
		return nil
	}
	if nil != err {
		return err
	}
	metrics.FactsRecorded.WithLabelValues("local").Inc()
	return nil
}
