// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"math"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/storage"
)

func runFacts(c *cli.Context) error {
	m := getMetadata(c)

	err := openDatabase(m, c.String("database"))
	if nil != err {
		return err
	}
	defer storage.Finalise()

	store := facts.NewStore(logger.New("facts"), storage.Pool.Facts)

	page, err := store.Query(context.Background(), facts.Query{
		AlertID:    constants.SnapshotAlertID,
		Source:     c.String("source"),
		StartBlock: c.Uint64("start"),
		EndBlock:   math.MaxUint64,
		First:      c.Int("count"),
	})
	if nil != err {
		return err
	}
	return printJson(m.w, page)
}
