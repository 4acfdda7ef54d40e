// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/metrics"
)

// Fanout - deliver each alert to every emitter, once per alert id and block
type Fanout struct {
	log      *logger.L
	seen     *cache.Cache
	emitters []alert.Emitter
}

// NewFanout - nil emitters are ignored
func NewFanout(log *logger.L, remember time.Duration, emitters ...alert.Emitter) *Fanout {
	list := make([]alert.Emitter, 0, len(emitters))
	for _, e := range emitters {
		if nil != e {
			list = append(list, e)
		}
	}
	return &Fanout{
		log:      log,
		seen:     cache.New(remember, 2*remember),
		emitters: list,
	}
}

// Emit - every emitter is tried, the first error is returned
func (f *Fanout) Emit(ctx context.Context, a alert.Alert) error {
	key := fmt.Sprintf("%s:%d:%d", a.AlertID, a.ChainID, a.BlockNumber)
	if err := f.seen.Add(key, struct{}{}, cache.DefaultExpiration); nil != err {
		f.log.Debugf("duplicate alert: %s", key)
		metrics.AlertsSuppressed.Inc()
		return nil
	}

	metrics.AlertsEmitted.WithLabelValues(a.Severity.String()).Inc()

	var first error
	for _, e := range f.emitters {
		err := e.Emit(ctx, a)
		if nil != err {
			f.log.Errorf("emit: %s  error: %s", key, err)
			metrics.EmitErrors.Inc()
			if nil == first {
				first = err
			}
		}
	}
	return first
}
