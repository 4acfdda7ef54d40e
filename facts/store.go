// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package facts

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/storage"
)

const storedVersion = 1

// record format in the facts pool
type storedFact struct {
	Version int  `json:"version"`
	Fact    Fact `json:"fact"`
}

// Store - append-only local fact store
type Store struct {
	log  *logger.L
	pool storage.Handle
}

// NewStore - facts kept in the given pool
func NewStore(log *logger.L, pool storage.Handle) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// key: alert id ++ 0x00 ++ big endian block number
func factKey(alertID string, block uint64) []byte {
	key := make([]byte, len(alertID)+9)
	copy(key, alertID)
	binary.BigEndian.PutUint64(key[len(alertID)+1:], block)
	return key
}

// Record - store a fact, once per alert id and block
//
// a second fact for the same block is rejected, the stored one stays
func (s *Store) Record(f Fact) error {
	if "" == f.AlertID || strings.ContainsRune(f.AlertID, 0) {
		return fault.InvalidQuery
	}

	key := factKey(f.AlertID, f.BlockNumber)
	found, err := s.pool.Has(key)
	if nil != err {
		return err
	}
	if found {
		return fault.FactAlreadyRecorded
	}

	buffer, err := json.Marshal(storedFact{
		Version: storedVersion,
		Fact:    f,
	})
	if nil != err {
		return err
	}

	err = s.pool.Put(key, buffer)
	if nil != err {
		return err
	}
	s.log.Debugf("recorded fact: %s  block: %d", f.AlertID, f.BlockNumber)
	return nil
}

// Query - facts in block order
func (s *Store) Query(ctx context.Context, q Query) (Page, error) {
	q, err := q.Normalise()
	if nil != err {
		return Page{}, err
	}

	startBlock := q.StartBlock
	if nil != q.After {
		if q.After.BlockNumber >= q.EndBlock {
			return Page{Facts: []Fact{}}, nil
		}
		if q.After.BlockNumber >= startBlock {
			startBlock = q.After.BlockNumber + 1
		}
	}

	start := factKey(q.AlertID, startBlock)
	var limit []byte
	if math.MaxUint64 == q.EndBlock {
		limit = append([]byte(q.AlertID), 0x01)
	} else {
		limit = factKey(q.AlertID, q.EndBlock+1)
	}

	page := Page{
		Facts: make([]Fact, 0, q.First),
	}
	batch := q.First + 1

scan:
	for {
		if err := ctx.Err(); nil != err {
			return Page{}, err
		}

		elements, err := s.pool.Range(start, limit, batch)
		if nil != err {
			return Page{}, err
		}

		for _, e := range elements {
			var stored storedFact
			err := json.Unmarshal(e.Value, &stored)
			if nil != err {
				s.log.Warnf("undecodable fact: %x  error: %s", e.Key, err)
				continue
			}
			if storedVersion != stored.Version {
				s.log.Warnf("fact: %x  error: %s", e.Key, fault.UnsupportedFactVersion)
				continue
			}
			if "" != q.Source && !strings.EqualFold(q.Source, stored.Fact.Source) {
				continue
			}
			if len(page.Facts) == q.First {
				page.HasNextPage = true
				break scan
			}
			page.Facts = append(page.Facts, stored.Fact)
		}

		if len(elements) < batch {
			break scan
		}

		// smallest key after the last one read
		last := elements[len(elements)-1].Key
		start = append(append(make([]byte, 0, len(last)+1), last...), 0x00)
	}

	if n := len(page.Facts); n > 0 {
		page.EndCursor = Cursor{
			AlertID:     q.AlertID,
			BlockNumber: page.Facts[n-1].BlockNumber,
		}
	}
	return page, nil
}
