// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/alert"
)

// LogEmitter - writes alerts to the log
type LogEmitter struct {
	log *logger.L
}

// NewLogEmitter - alerts go to the given channel
func NewLogEmitter(log *logger.L) *LogEmitter {
	return &LogEmitter{
		log: log,
	}
}

// Emit - critical alerts are logged as critical, everything else as info
func (l *LogEmitter) Emit(_ context.Context, a alert.Alert) error {
	if alert.Critical == a.Severity {
		l.log.Criticalf("%s  chain: %s  block: %d  %s", a.AlertID, a.ChainID, a.BlockNumber, a.Description)
	} else {
		l.log.Infof("%s  chain: %s  block: %d  %s", a.AlertID, a.ChainID, a.BlockNumber, a.Description)
	}
	return nil
}
