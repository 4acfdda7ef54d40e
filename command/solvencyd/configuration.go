// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/configuration"
	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/metrics"
	"github.com/bridgewatch/solvencyd/publish"
	"github.com/bridgewatch/solvencyd/rpc/listeners"
	"github.com/bridgewatch/solvencyd/subscribe"
	"github.com/bridgewatch/solvencyd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPublicKeyFile  = "publish.public"
	defaultPrivateKeyFile = "publish.private"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "facts"

	defaultLogDirectory = "log"
	defaultLogFile      = "solvencyd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients   = 10
	defaultPollInterval = "15s"
	defaultTimeout      = "10s"
)

// fact backends
const (
	backendGraphQL = "graphql"
	backendRPC     = "rpc"
	backendLocal   = "local"
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// EthereumType - node access
type EthereumType struct {
	URL       string  `gluamapper:"url" json:"url"`
	Timeout   string  `gluamapper:"timeout" json:"timeout"`
	RateLimit float64 `gluamapper:"rate_limit" json:"rate_limit"`
	RateBurst int     `gluamapper:"rate_burst" json:"rate_burst"`
}

// FactsType - where snapshot facts are read from
type FactsType struct {
	Backend string `gluamapper:"backend" json:"backend"`
	URL     string `gluamapper:"url" json:"url"`
	BotID   string `gluamapper:"bot_id" json:"bot_id"`
	Timeout string `gluamapper:"timeout" json:"timeout"`
}

// Configuration - the daemon configuration file
type Configuration struct {
	DataDirectory  string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile        string       `gluamapper:"pidfile" json:"pidfile"`
	Database       DatabaseType `gluamapper:"database" json:"database"`
	PollInterval   string       `gluamapper:"poll_interval" json:"poll_interval"`
	MaximumCatchUp uint64       `gluamapper:"maximum_catch_up" json:"maximum_catch_up"`

	Ethereum   EthereumType               `gluamapper:"ethereum" json:"ethereum"`
	Facts      FactsType                  `gluamapper:"facts" json:"facts"`
	Publishing publish.Configuration      `gluamapper:"publishing" json:"publishing"`
	Subscribe  subscribe.Configuration    `gluamapper:"subscribe" json:"subscribe"`
	ClientRPC  listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	Metrics    metrics.Configuration      `gluamapper:"metrics" json:"metrics"`
	Logging    logger.Configuration       `gluamapper:"logging" json:"logging"`

	// parsed from the strings above
	pollInterval  time.Duration
	nodeTimeout   time.Duration
	factsTimeout  time.Duration
	configuration string
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory:  defaultDataDirectory,
		PidFile:        "", // no PidFile by default
		PollInterval:   defaultPollInterval,
		MaximumCatchUp: constants.MaximumCatchUp,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Ethereum: EthereumType{
			Timeout: defaultTimeout,
		},

		Facts: FactsType{
			Backend: backendLocal,
			BotID:   constants.PublisherBotID,
			Timeout: defaultTimeout,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		Publishing: publish.Configuration{
			PublicKey:  defaultPublicKeyFile,
			PrivateKey: defaultPrivateKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}
	options.configuration = configurationFileName

	// mirrored facts must be found by the solvency check's query
	if "" == options.Subscribe.Source {
		options.Subscribe.Source = options.Facts.BotID
	}

	if "" == options.Ethereum.URL {
		return nil, fmt.Errorf("ethereum.url is required")
	}

	options.pollInterval, err = positiveDuration("poll_interval", options.PollInterval)
	if nil != err {
		return nil, err
	}
	options.nodeTimeout, err = positiveDuration("ethereum.timeout", options.Ethereum.Timeout)
	if nil != err {
		return nil, err
	}
	options.factsTimeout, err = positiveDuration("facts.timeout", options.Facts.Timeout)
	if nil != err {
		return nil, err
	}

	options.Facts.Backend = strings.ToLower(options.Facts.Backend)
	switch options.Facts.Backend {
	case backendLocal:
	case backendGraphQL, backendRPC:
		if "" == options.Facts.URL {
			return nil, fmt.Errorf("facts backend: %q requires a url", options.Facts.Backend)
		}
	default:
		return nil, fmt.Errorf("facts backend: %q is not supported", options.Facts.Backend)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// keys are only needed when broadcasting or subscribing with CURVE
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	if 0 != len(options.Publishing.Broadcast) {
		mustBeAbsolute = append(mustBeAbsolute,
			&options.Publishing.PublicKey,
			&options.Publishing.PrivateKey,
		)
	} else {
		options.Publishing.PublicKey = ""
		options.Publishing.PrivateKey = ""
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Subscribe.PublicKey,
		&options.Subscribe.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := util.EnsureDirectory(d); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

func positiveDuration(name string, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if nil != err {
		return 0, fmt.Errorf("%s: %q  error: %s", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: %q must be positive", name, value)
	}
	return d, nil
}
