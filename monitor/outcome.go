// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package monitor

import (
	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/chain"
)

// Block - the block being evaluated
type Block struct {
	Number uint64
	Hash   string
}

// steps of an evaluation
const (
	StepDispatch = "dispatch"
	StepSnapshot = "escrow-snapshot"
	StepCheck    = "solvency-check"
)

// Status - how a step ended
type Status int

// possible statuses
const (
	Failed        Status = iota // a read failed or a panic was recovered
	Emitted                     // alerts were produced
	Solvent                     // escrow covers supply
	NoFact                      // no snapshot fact for the block yet
	MalformedFact               // the fact lacked a usable escrow value
	UnknownChain                // no route for the chain
)

var statusNames = []string{"failed", "emitted", "solvent", "no-fact", "malformed-fact", "unknown-chain"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "invalid"
	}
	return statusNames[s]
}

// MarshalText - status as its name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome - result of evaluating one block
//
// Err is only set for Failed and MalformedFact.
type Outcome struct {
	Step        string        `json:"step"`
	ChainID     chain.ID      `json:"chainId"`
	BlockNumber uint64        `json:"blockNumber"`
	Status      Status        `json:"status"`
	Err         error         `json:"-"`
	Alerts      []alert.Alert `json:"alerts"`
}
