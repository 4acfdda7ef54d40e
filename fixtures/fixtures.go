// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test setup
package fixtures

import (
	"os"

	"github.com/bitmark-inc/logger"
)

// LogCategory - logger tag used by tests
const LogCategory = "testing"

const (
	logDirectory = "testing"
	logLevelEnv  = "SOLVENCY_TEST_LOG_LEVEL"
)

// SetupTestLogger - start a file logger in a fresh testing directory
//
// only critical messages are written unless SOLVENCY_TEST_LOG_LEVEL
// names another level
func SetupTestLogger() {
	_ = os.RemoveAll(logDirectory)
	_ = os.Mkdir(logDirectory, 0700)

	level := os.Getenv(logLevelEnv)
	if "" == level {
		level = "critical"
	}

	_ = logger.Initialise(logger.Configuration{
		Directory: logDirectory,
		File:      LogCategory + ".log",
		Size:      1 << 20,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
}

// TeardownTestLogger - stop logging and remove the testing directory
func TeardownTestLogger() {
	logger.Finalise()
	_ = os.RemoveAll(logDirectory)
}
