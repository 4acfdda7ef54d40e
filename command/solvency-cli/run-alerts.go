// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bridgewatch/solvencyd/publish"
	"github.com/bridgewatch/solvencyd/storage"
)

func runAlerts(c *cli.Context) error {
	m := getMetadata(c)

	err := openDatabase(m, c.String("database"))
	if nil != err {
		return err
	}
	defer storage.Finalise()

	journal := publish.NewJournal(logger.New("journal"), storage.Pool.Alerts)
	alerts, err := journal.List(c.Uint64("start"), c.Int("count"))
	if nil != err {
		return err
	}
	return printJson(m.w, alerts)
}
