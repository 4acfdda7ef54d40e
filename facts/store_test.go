// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package facts_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/fixtures"
	"github.com/bridgewatch/solvencyd/mocks"
	"github.com/bridgewatch/solvencyd/storage"
)

const databaseDirectory = "testing-facts"

func setupStore(t *testing.T) *facts.Store {
	fixtures.SetupTestLogger()
	_ = os.RemoveAll(databaseDirectory)
	_ = os.Mkdir(databaseDirectory, 0700)

	err := storage.Initialise(filepath.Join(databaseDirectory, "facts"), storage.ReadWrite)
	assert.Nil(t, err, "storage initialise error")

	return facts.NewStore(logger.New(fixtures.LogCategory), storage.Pool.Facts)
}

func teardownStore() {
	storage.Finalise()
	_ = os.RemoveAll(databaseDirectory)
	fixtures.TeardownTestLogger()
}

func snapshotFact(source string, block uint64, opt string) facts.Fact {
	return facts.Fact{
		AlertID:     "l1-escrow-supply",
		Source:      source,
		ChainID:     1,
		BlockNumber: block,
		Metadata: map[string]string{
			"optEscrBal": opt,
			"ArbEscrBal": "0",
		},
	}
}

func TestStoreRecordAndQuery(t *testing.T) {
	s := setupStore(t)
	defer teardownStore()

	for _, b := range []uint64{10, 11, 12, 300} {
		err := s.Record(snapshotFact("bot", b, "1"))
		assert.Nil(t, err, "record error")
	}
	err := s.Record(facts.Fact{AlertID: "other", BlockNumber: 11})
	assert.Nil(t, err, "record error")

	page, err := s.Query(context.Background(), facts.ForBlock("l1-escrow-supply", "bot", 11))
	assert.Nil(t, err, "query error")
	assert.Equal(t, 1, len(page.Facts), "wrong fact count")
	assert.Equal(t, uint64(11), page.Facts[0].BlockNumber, "wrong block")
	assert.Equal(t, "1", page.Facts[0].Metadata["optEscrBal"], "wrong metadata")
	assert.False(t, page.HasNextPage, "unexpected next page")

	page, err = s.Query(context.Background(), facts.ForBlock("l1-escrow-supply", "bot", 13))
	assert.Nil(t, err, "query error")
	assert.Equal(t, 0, len(page.Facts), "fact for wrong block returned")
}

func TestStoreAppendOnly(t *testing.T) {
	s := setupStore(t)
	defer teardownStore()

	err := s.Record(snapshotFact("bot", 5, "100"))
	assert.Nil(t, err, "record error")

	err = s.Record(snapshotFact("bot", 5, "999"))
	assert.Equal(t, fault.FactAlreadyRecorded, err, "overwrite accepted")

	page, err := s.Query(context.Background(), facts.ForBlock("l1-escrow-supply", "", 5))
	assert.Nil(t, err, "query error")
	assert.Equal(t, "100", page.Facts[0].Metadata["optEscrBal"], "fact was overwritten")
}

func TestStorePaging(t *testing.T) {
	s := setupStore(t)
	defer teardownStore()

	for b := uint64(1); b <= 5; b += 1 {
		source := "bot"
		if 3 == b {
			source = "impostor"
		}
		err := s.Record(snapshotFact(source, b, "1"))
		assert.Nil(t, err, "record error")
	}

	q := facts.Query{
		AlertID:    "l1-escrow-supply",
		Source:     "BOT",
		StartBlock: 0,
		EndBlock:   math.MaxUint64,
		First:      2,
	}
	page, err := s.Query(context.Background(), q)
	assert.Nil(t, err, "query error")
	assert.Equal(t, 2, len(page.Facts), "wrong page size")
	assert.True(t, page.HasNextPage, "missing next page")
	assert.Equal(t, facts.Cursor{AlertID: "l1-escrow-supply", BlockNumber: 2}, page.EndCursor, "wrong cursor")

	q.After = &page.EndCursor
	page, err = s.Query(context.Background(), q)
	assert.Nil(t, err, "query error")
	assert.Equal(t, 2, len(page.Facts), "wrong page size")
	assert.Equal(t, uint64(4), page.Facts[0].BlockNumber, "source filter not applied")
	assert.Equal(t, uint64(5), page.Facts[1].BlockNumber, "wrong block")
	assert.False(t, page.HasNextPage, "unexpected next page")
}

func TestStorePoolError(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	failure := errors.New("disk gone")
	pool := mocks.NewMockHandle(ctl)
	pool.EXPECT().Has(gomock.Any()).Return(false, nil).Times(1)
	pool.EXPECT().Put(gomock.Any(), gomock.Any()).Return(failure).Times(1)
	pool.EXPECT().Range(gomock.Any(), gomock.Any(), 2).Return(nil, failure).Times(1)

	s := facts.NewStore(logger.New(fixtures.LogCategory), pool)

	err := s.Record(snapshotFact("bot", 1, "1"))
	assert.Equal(t, failure, err, "put error lost")

	_, err = s.Query(context.Background(), facts.ForBlock("l1-escrow-supply", "bot", 1))
	assert.Equal(t, failure, err, "range error lost")
}
