// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package alert_test

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/fault"
)

func TestNewEscrowSnapshot(t *testing.T) {
	a := alert.NewEscrowSnapshot([]alert.EscrowBalance{
		{Network: "Optimism", Field: "optEscrBal", Balance: big.NewInt(500)},
		{Network: "Arbitrum", Field: "ArbEscrBal", Balance: big.NewInt(0)},
	})

	assert.Equal(t, "l1-escrow-supply", a.AlertID, "wrong alert id")
	assert.Equal(t, "Total supply of Optimism and Arbitrum MakerDao escrows on layer one Dai", a.Name, "wrong name")
	assert.Equal(t, "Balances of escrows: Arbitrum-> 0 Optimism-> 500", a.Description, "wrong description")
	assert.Equal(t, alert.Info, a.Severity, "wrong severity")
	assert.Equal(t, alert.InfoType, a.Type, "wrong type")
	assert.Equal(t, "Ethereum", a.Protocol, "wrong protocol")
	assert.Equal(t, map[string]string{"optEscrBal": "500", "ArbEscrBal": "0"}, a.Metadata, "wrong metadata")
}

func TestNewInsolvency(t *testing.T) {
	escrow, _ := new(big.Int).SetString("900000000000000000000", 10)
	supply, _ := new(big.Int).SetString("1000000000000000000000", 10)

	a := alert.NewInsolvency("Arbitrum", escrow, supply)

	assert.Equal(t, "L1 Arbitrum escrow insolvent", a.AlertID, "wrong alert id")
	assert.Equal(t, "Total supply of MakerDao l1 escrow is less than Arbitrum Dai supply on l2", a.Name, "wrong name")
	assert.Equal(t, "balances: l1Escrow-> 900000000000000000000, Arbitrum l2Supply-> 1000000000000000000000", a.Description, "wrong description")
	assert.Equal(t, alert.Critical, a.Severity, "wrong severity")
	assert.Equal(t, alert.Exploit, a.Type, "wrong type")
	assert.Equal(t, "Arbitrum", a.Protocol, "wrong protocol")
	assert.Equal(t, "900000000000000000000", a.Metadata["l1Escrow"], "wrong escrow")
	assert.Equal(t, "1000000000000000000000", a.Metadata["L2supply"], "wrong supply")
}

func TestSeverityText(t *testing.T) {
	a := alert.NewInsolvency("Optimism", big.NewInt(1), big.NewInt(2))
	a.BlockNumber = 12
	a.ChainID = 10

	buffer, err := json.Marshal(a)
	assert.Nil(t, err, "wrong marshal error")
	assert.Contains(t, string(buffer), `"severity":"Critical"`, "severity not text")
	assert.Contains(t, string(buffer), `"type":"Exploit"`, "type not text")

	var b alert.Alert
	err = json.Unmarshal(buffer, &b)
	assert.Nil(t, err, "wrong unmarshal error")
	assert.Equal(t, a, b, "wrong round trip")

	var s alert.Severity
	err = s.UnmarshalText([]byte("urgent"))
	assert.Equal(t, fault.UnknownAlertSeverity, err, "wrong error")
	assert.Equal(t, "Unknown", alert.Severity(99).String(), "wrong out of range name")
}

func TestEmitterFunc(t *testing.T) {
	var got alert.Alert
	e := alert.EmitterFunc(func(_ context.Context, a alert.Alert) error {
		got = a
		return nil
	})

	err := e.Emit(context.Background(), alert.Alert{AlertID: "x"})
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, "x", got.AlertID, "not delivered")
}
