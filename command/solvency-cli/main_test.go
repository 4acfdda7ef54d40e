// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"math/big"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/chaindata"
	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/fixtures"
	"github.com/bridgewatch/solvencyd/publish"
	"github.com/bridgewatch/solvencyd/storage"
	"github.com/bridgewatch/solvencyd/zmqutil"
)

// a node answering the three eth_ methods the commands use
type testNode struct {
	chainID uint64
	head    uint64
	supply  *big.Int
	fail    bool
}

func (n *testNode) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(n.chainID))
}

func (n *testNode) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(n.head)
}

func (n *testNode) Call(args map[string]interface{}, block string) (hexutil.Bytes, error) {
	if n.fail {
		return nil, errors.New("execution reverted")
	}
	return chaindata.ERC20.Methods["totalSupply"].Outputs.Pack(n.supply)
}

func startNode(t *testing.T, node *testNode) (string, func()) {
	server := rpc.NewServer()
	err := server.RegisterName("eth", node)
	assert.Nil(t, err, "register error")

	h := httptest.NewServer(server)
	return h.URL, func() {
		h.Close()
		server.Stop()
	}
}

// create a database holding one snapshot fact and one journalled alert
func seedDatabase(t *testing.T, block uint64, optimismEscrow string) (string, func()) {
	dir, err := ioutil.TempDir("", "solvency-cli")
	assert.Nil(t, err, "temp dir error")

	database := filepath.Join(dir, "facts")

	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	err = storage.Initialise(database, storage.ReadWrite)
	assert.Nil(t, err, "storage initialise error")
	defer storage.Finalise()

	store := facts.NewStore(logger.New(fixtures.LogCategory), storage.Pool.Facts)
	err = store.Record(facts.Fact{
		AlertID:     constants.SnapshotAlertID,
		Source:      constants.PublisherBotID,
		ChainID:     chain.Ethereum,
		BlockNumber: block,
		Metadata: map[string]string{
			constants.OptimismEscrowField: optimismEscrow,
			constants.ArbitrumEscrowField: "0",
		},
	})
	assert.Nil(t, err, "record error")

	a := alert.NewInsolvency("Optimism", big.NewInt(5), big.NewInt(10))
	a.ChainID = chain.Optimism
	a.BlockNumber = block
	journal := publish.NewJournal(logger.New(fixtures.LogCategory), storage.Pool.Alerts)
	err = journal.Emit(context.Background(), a)
	assert.Nil(t, err, "journal error")

	return database, func() {
		_ = os.RemoveAll(dir)
	}
}

func run(arguments ...string) (string, error) {
	w := &bytes.Buffer{}
	e := &bytes.Buffer{}
	app := newApp(w, e)
	err := app.Run(append([]string{"solvency-cli"}, arguments...))
	return w.String(), err
}

type checkOutput struct {
	Step        string `json:"step"`
	ChainID     uint64 `json:"chainId"`
	BlockNumber uint64 `json:"blockNumber"`
	Status      string `json:"status"`
	Error       string `json:"error"`
	Alerts      []struct {
		AlertID  string `json:"alertId"`
		Severity string `json:"severity"`
	} `json:"alerts"`
}

func runCheckCommand(t *testing.T, url string, database string, block uint64) checkOutput {
	out, err := run("--node", url, "check", "--facts", "local", "--database", database, "--block", fmt.Sprintf("%d", block))
	assert.Nil(t, err, "check error")

	var reply checkOutput
	err = json.Unmarshal([]byte(out), &reply)
	assert.Nil(t, err, "output is not JSON: %s", out)
	return reply
}

func TestCheckInsolvent(t *testing.T) {
	database, cleanup := seedDatabase(t, 100, "5")
	defer cleanup()

	url, stop := startNode(t, &testNode{chainID: uint64(chain.Optimism), head: 100, supply: big.NewInt(10)})
	defer stop()

	reply := runCheckCommand(t, url, database, 100)
	assert.Equal(t, "solvency-check", reply.Step, "wrong step")
	assert.Equal(t, uint64(chain.Optimism), reply.ChainID, "wrong chain")
	assert.Equal(t, uint64(100), reply.BlockNumber, "wrong block")
	assert.Equal(t, "emitted", reply.Status, "status not written as its name")
	assert.Equal(t, "", reply.Error, "unexpected error")
	if assert.Equal(t, 1, len(reply.Alerts), "wrong alert count") {
		assert.Equal(t, "L1 Optimism escrow insolvent", reply.Alerts[0].AlertID, "wrong alert id")
		assert.Equal(t, "Critical", reply.Alerts[0].Severity, "wrong severity")
	}
}

func TestCheckDefaultsToHead(t *testing.T) {
	database, cleanup := seedDatabase(t, 100, "10")
	defer cleanup()

	url, stop := startNode(t, &testNode{chainID: uint64(chain.Optimism), head: 100, supply: big.NewInt(10)})
	defer stop()

	out, err := run("--node", url, "check", "--facts", "local", "--database", database)
	assert.Nil(t, err, "check error")

	var reply checkOutput
	err = json.Unmarshal([]byte(out), &reply)
	assert.Nil(t, err, "output is not JSON")
	assert.Equal(t, uint64(100), reply.BlockNumber, "head not used")
	assert.Equal(t, "solvent", reply.Status, "wrong status")
	assert.Equal(t, 0, len(reply.Alerts), "unexpected alerts")
}

func TestCheckReportsErrors(t *testing.T) {
	database, cleanup := seedDatabase(t, 100, "not-a-number")
	defer cleanup()

	url, stop := startNode(t, &testNode{chainID: uint64(chain.Optimism), head: 100, supply: big.NewInt(10)})
	defer stop()

	reply := runCheckCommand(t, url, database, 100)
	assert.Equal(t, "malformed-fact", reply.Status, "wrong status")
	assert.NotEqual(t, "", reply.Error, "error not reported")

	failing, stopFailing := startNode(t, &testNode{chainID: uint64(chain.Optimism), head: 100, fail: true})
	defer stopFailing()

	reply = runCheckCommand(t, failing, database, 100)
	assert.Equal(t, "failed", reply.Status, "wrong status")
	assert.True(t, strings.Contains(reply.Error, "execution reverted"), "node error missing: %q", reply.Error)
	assert.Equal(t, 0, len(reply.Alerts), "unexpected alerts")
}

func TestCheckRejectsUnknownBackend(t *testing.T) {
	_, err := run("check", "--facts", "redis")
	assert.NotNil(t, err, "unknown backend accepted")
}

func TestFactsAndAlerts(t *testing.T) {
	database, cleanup := seedDatabase(t, 77, "5")
	defer cleanup()

	out, err := run("facts", "--database", database)
	assert.Nil(t, err, "facts error")

	var page facts.Page
	err = json.Unmarshal([]byte(out), &page)
	assert.Nil(t, err, "facts output is not JSON")
	if assert.Equal(t, 1, len(page.Facts), "wrong fact count") {
		assert.Equal(t, uint64(77), page.Facts[0].BlockNumber, "wrong block")
		assert.Equal(t, "5", page.Facts[0].Metadata[constants.OptimismEscrowField], "wrong metadata")
	}

	out, err = run("alerts", "--database", database)
	assert.Nil(t, err, "alerts error")

	var alerts []alert.Alert
	err = json.Unmarshal([]byte(out), &alerts)
	assert.Nil(t, err, "alerts output is not JSON")
	if assert.Equal(t, 1, len(alerts), "wrong alert count") {
		assert.Equal(t, uint64(77), alerts[0].BlockNumber, "wrong block")
		assert.Equal(t, alert.Critical, alerts[0].Severity, "wrong severity")
	}

	_, err = run("facts")
	assert.NotNil(t, err, "missing database accepted")
}

func TestKeys(t *testing.T) {
	dir, err := ioutil.TempDir("", "solvency-keys")
	assert.Nil(t, err, "temp dir error")
	defer os.RemoveAll(dir)

	_, err = run("keys", dir)
	assert.Nil(t, err, "keys error")

	keys, err := zmqutil.ReadKeys(filepath.Join(dir, "publish.public"), filepath.Join(dir, "publish.private"))
	assert.Nil(t, err, "read keys error")
	if assert.NotNil(t, keys, "no keys") {
		assert.Equal(t, 32, len(keys.Public), "wrong public key length")
		assert.Equal(t, 32, len(keys.Private), "wrong private key length")
	}

	_, err = run("keys", dir)
	assert.Equal(t, fault.KeyFileAlreadyExists, err, "existing keys overwritten")
}
