// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"
)

type metadata struct {
	node    string
	timeout time.Duration
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// newApp - commands write results to w and diagnostics to e
func newApp(w io.Writer, e io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "solvency-cli"
	app.Usage = "inspect escrow solvency monitoring"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "node, n",
			Value:  "http://127.0.0.1:8545",
			Usage:  " Ethereum JSON-RPC endpoint `URL`",
			EnvVar: "SOLVENCY_NODE",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: 10 * time.Second,
			Usage: " per request `DURATION`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "chain-id",
			Usage:  "display the chain id of the node",
			Action: runChainID,
		},
		{
			Name:      "check",
			Usage:     "evaluate one block and display the outcome",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "block, b",
					Value: 0,
					Usage: " block `NUMBER` to evaluate, default is the current head",
				},
				cli.StringFlag{
					Name:  "facts, f",
					Value: "graphql",
					Usage: " fact backend `TYPE` [graphql|rpc|local]",
				},
				cli.StringFlag{
					Name:  "facts-url, u",
					Value: "",
					Usage: " fact backend `URL`, or HOST:PORT for rpc",
				},
				cli.StringFlag{
					Name:  "database, d",
					Value: "",
					Usage: " database `PATH` without .leveldb for the local backend",
				},
				cli.StringFlag{
					Name:  "bot-id",
					Value: "",
					Usage: " publisher of the snapshot facts `ID`",
				},
			},
			Action: runCheck,
		},
		{
			Name:      "facts",
			Usage:     "list snapshot facts kept in a local database",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "database, d",
					Value: "",
					Usage: "*database `PATH` without .leveldb",
				},
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " first block `NUMBER`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
				cli.StringFlag{
					Name:  "source",
					Value: "",
					Usage: " only facts from `SOURCE`",
				},
			},
			Action: runFacts,
		},
		{
			Name:      "alerts",
			Usage:     "list emitted alerts kept in a local database",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "database, d",
					Value: "",
					Usage: "*database `PATH` without .leveldb",
				},
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " first block `NUMBER`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum records to output `COUNT`",
				},
			},
			Action: runAlerts,
		},
		{
			Name:      "info",
			Usage:     "display solvencyd status",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "127.0.0.1:2130",
					Usage: " solvencyd client rpc `HOST:PORT`",
				},
			},
			Action: runInfo,
		},
		{
			Name:      "keys",
			Usage:     "generate a publish key pair",
			ArgsUsage: "[DIR]",
			Action:    runKeys,
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// all library packages log; keep it out of the terminal
		err := logger.Initialise(logger.Configuration{
			Directory: os.TempDir(),
			File:      "solvency-cli.log",
			Size:      1024 * 1024,
			Count:     2,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		})
		if nil != err {
			return err
		}

		if verbose {
			fmt.Fprintf(e, "node: %q\n", c.GlobalString("node"))
		}

		c.App.Metadata["config"] = &metadata{
			node:    c.GlobalString("node"),
			timeout: c.GlobalDuration("timeout"),
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		logger.Finalise()
		return nil
	}

	return app
}
