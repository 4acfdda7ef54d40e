// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/background"
	"github.com/bridgewatch/solvencyd/blockwatch"
	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/chaindata"
	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/metrics"
	"github.com/bridgewatch/solvencyd/monitor"
	"github.com/bridgewatch/solvencyd/publish"
	"github.com/bridgewatch/solvencyd/rpc"
	"github.com/bridgewatch/solvencyd/storage"
	"github.com/bridgewatch/solvencyd/subscribe"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "define", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'D'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// NAME=VALUE pairs become Lua globals
	variables := make(map[string]string)
	for _, d := range options["define"] {
		v := strings.SplitN(d, "=", 2)
		if 2 != len(v) || "" == v[0] {
			exitwithstatus.Message("%s: define: %q is not NAME=VALUE", program, d)
		}
		variables[v[0]] = v[1]
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Debugf("%s = %#v", "Ethereum", theConfiguration.Ethereum)
	log.Debugf("%s = %#v", "Facts", theConfiguration.Facts)
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)
	log.Debugf("%s = %#v", "Subscribe", theConfiguration.Subscribe)

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	store := facts.NewStore(logger.New("facts"), storage.Pool.Facts)

	// node access
	ctx, cancel := context.WithTimeout(context.Background(), theConfiguration.nodeTimeout)
	client, err := chaindata.Dial(ctx, logger.New("chaindata"), theConfiguration.Ethereum.URL, chaindata.Options{
		Timeout:   theConfiguration.nodeTimeout,
		RateLimit: theConfiguration.Ethereum.RateLimit,
		RateBurst: theConfiguration.Ethereum.RateBurst,
	})
	if nil != err {
		cancel()
		log.Criticalf("ethereum dial: %q  error: %s", theConfiguration.Ethereum.URL, err)
		exitwithstatus.Message("ethereum dial: %q  error: %s", theConfiguration.Ethereum.URL, err)
	}
	defer client.Close()

	// only for reporting; every block fetches the chain id again
	chainID, err := client.ChainID(ctx)
	cancel()
	if nil != err {
		log.Criticalf("chain id error: %s", err)
		exitwithstatus.Message("chain id error: %s", err)
	}
	log.Infof("chain: %s", chainID)

	routes := chain.DefaultTable()

	querier, closeQuerier, err := makeQuerier(theConfiguration, store)
	if nil != err {
		log.Criticalf("facts backend: %q  error: %s", theConfiguration.Facts.Backend, err)
		exitwithstatus.Message("facts backend: %q  error: %s", theConfiguration.Facts.Backend, err)
	}
	defer closeQuerier()

	// start up the publishing background processes
	err = publish.Initialise(&theConfiguration.Publishing)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	defer publish.Finalise()

	emitters := []alert.Emitter{
		publish.NewLogEmitter(logger.New("alert")),
		publish.NewJournal(logger.New("journal"), storage.Pool.Alerts),
		publish.NewRecorder(logger.New("recorder"), store, constants.SnapshotAlertID, theConfiguration.Facts.BotID),
		publish.Emitter(),
	}
	fanout := publish.NewFanout(logger.New("fanout"), constants.DuplicateTimeout, emitters...)

	dispatcher := monitor.NewDispatcher(logger.New("monitor"), routes, client, querier, theConfiguration.Facts.BotID)
	watcher := blockwatch.New(
		logger.New("blockwatch"),
		client,
		dispatcher,
		fanout,
		theConfiguration.pollInterval,
		theConfiguration.MaximumCatchUp,
	)

	processes := background.Processes{
		watcher,
	}

	if "" != theConfiguration.Subscribe.Connect {
		s, err := subscribe.New(logger.New("subscribe"), &theConfiguration.Subscribe, constants.SnapshotAlertID, store)
		if nil != err {
			log.Criticalf("subscribe error: %s", err)
			exitwithstatus.Message("subscribe error: %s", err)
		}
		processes = append(processes, s)
	}

	metricsServer, err := metrics.NewServer(logger.New("metrics"), theConfiguration.Metrics)
	if nil != err {
		log.Criticalf("metrics error: %s", err)
		exitwithstatus.Message("metrics error: %s", err)
	}
	if nil != metricsServer {
		processes = append(processes, metricsServer)
	}

	cw, err := newConfigWatcher(logger.New("config"), theConfiguration.configuration, variables, client)
	if nil != err {
		log.Warnf("configuration watch disabled: %s", err)
	} else {
		processes = append(processes, cw)
	}

	// start up the rpc background processes
	err = rpc.Initialise(&theConfiguration.ClientRPC, version, chainID.String(), store, watcher)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	bg := background.Start(processes, nil)
	defer bg.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// the fact source selected by facts.backend
func makeQuerier(configuration *Configuration, store *facts.Store) (facts.Querier, func(), error) {
	nothing := func() {}

	switch configuration.Facts.Backend {
	case backendGraphQL:
		c, err := facts.NewGraphQLClient(logger.New("graphql"), configuration.Facts.URL, configuration.factsTimeout)
		if nil != err {
			return nil, nothing, err
		}
		return c, nothing, nil

	case backendRPC:
		c, err := facts.NewRPCClient(logger.New("factrpc"), configuration.Facts.URL, configuration.factsTimeout)
		if nil != err {
			return nil, nothing, err
		}
		return c, c.Close, nil

	default:
		return store, nothing, nil
	}
}
