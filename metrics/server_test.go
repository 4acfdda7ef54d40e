// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics_test

import (
	"io/ioutil"
	"net/http"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/background"
	"github.com/bridgewatch/solvencyd/fixtures"
	"github.com/bridgewatch/solvencyd/metrics"
)

func TestServeMetrics(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s, err := metrics.NewServer(logger.New(fixtures.LogCategory), metrics.Configuration{Listen: "127.0.0.1:0"})
	assert.Nil(t, err, "wrong error")

	metrics.BlocksEvaluated.WithLabelValues("10").Inc()
	metrics.AlertsEmitted.WithLabelValues("Critical").Inc()

	processes := background.Start(background.Processes{s}, nil)
	defer processes.Stop()

	response, err := http.Get("http://" + s.Address() + "/metrics")
	assert.Nil(t, err, "get error")
	defer response.Body.Close()

	body, _ := ioutil.ReadAll(response.Body)
	assert.Contains(t, string(body), `solvencyd_monitor_blocks_evaluated_total{chain="10"} 1`, "counter missing")
	assert.Contains(t, string(body), `solvencyd_publish_alerts_emitted_total{severity="Critical"} 1`, "counter missing")
}

func TestDisabled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s, err := metrics.NewServer(logger.New(fixtures.LogCategory), metrics.Configuration{})
	assert.Nil(t, err, "wrong error")
	assert.Nil(t, s, "server created without listen address")
}
