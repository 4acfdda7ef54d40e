// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/storage"
)

// Journal - every emitted alert in block order
type Journal struct {
	log  *logger.L
	pool storage.Handle
}

// NewJournal - alerts kept in the given pool
func NewJournal(log *logger.L, pool storage.Handle) *Journal {
	return &Journal{
		log:  log,
		pool: pool,
	}
}

// key: big endian block number ++ alert id
func journalKey(block uint64, alertID string) []byte {
	key := make([]byte, 8+len(alertID))
	binary.BigEndian.PutUint64(key, block)
	copy(key[8:], alertID)
	return key
}

// Emit - a later alert with the same id and block replaces the earlier one
func (j *Journal) Emit(_ context.Context, a alert.Alert) error {
	data, err := json.Marshal(a)
	if nil != err {
		return err
	}
	return j.pool.Put(journalKey(a.BlockNumber, a.AlertID), data)
}

// List - up to count alerts from startBlock onwards
func (j *Journal) List(startBlock uint64, count int) ([]alert.Alert, error) {
	elements, err := j.pool.Range(journalKey(startBlock, ""), nil, count)
	if nil != err {
		return nil, err
	}

	alerts := make([]alert.Alert, 0, len(elements))
	for _, e := range elements {
		var a alert.Alert
		err := json.Unmarshal(e.Value, &a)
		if nil != err {
			j.log.Warnf("undecodable alert: %x  error: %s", e.Key, err)
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
