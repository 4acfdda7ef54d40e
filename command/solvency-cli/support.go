// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bridgewatch/solvencyd/chaindata"
	"github.com/bridgewatch/solvencyd/storage"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

func getMetadata(c *cli.Context) *metadata {
	return c.App.Metadata["config"].(*metadata)
}

// connect to the node given by the global flags
func dial(m *metadata) (*chaindata.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if m.verbose {
		fmt.Fprintf(m.e, "dial: %q\n", m.node)
	}
	return chaindata.Dial(ctx, logger.New("chaindata"), m.node, chaindata.Options{
		Timeout: m.timeout,
	})
}

// open the database for reading, caller must storage.Finalise
func openDatabase(m *metadata, database string) error {
	if "" == database {
		return fmt.Errorf("missing database path")
	}
	if m.verbose {
		fmt.Fprintf(m.e, "database: %q\n", database)
	}
	return storage.Initialise(database, storage.ReadOnly)
}
