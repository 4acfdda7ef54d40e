// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package alert

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/bridgewatch/solvencyd/constants"
)

// protocol label of the escrow snapshot
const snapshotProtocol = "Ethereum"

// EscrowBalance - one escrow's balance as carried by a snapshot
type EscrowBalance struct {
	Network string   // display name of the dependent chain
	Field   string   // metadata key
	Balance *big.Int // token units at the snapshot block
}

// NewEscrowSnapshot - the informational fact published on the anchor chain
//
// balances are listed in the description in reverse order, matching
// the published text "Arbitrum-> A Optimism-> O" for the default routes
func NewEscrowSnapshot(balances []EscrowBalance) Alert {
	metadata := make(map[string]string, len(balances))
	parts := make([]string, 0, len(balances))
	for i := len(balances) - 1; i >= 0; i -= 1 {
		b := balances[i]
		metadata[b.Field] = b.Balance.String()
		parts = append(parts, fmt.Sprintf("%s-> %s", b.Network, b.Balance.String()))
	}

	names := make([]string, 0, len(balances))
	for _, b := range balances {
		names = append(names, b.Network)
	}

	return Alert{
		AlertID:     constants.SnapshotAlertID,
		Name:        fmt.Sprintf("Total supply of %s MakerDao escrows on layer one Dai", strings.Join(names, " and ")),
		Description: "Balances of escrows: " + strings.Join(parts, " "),
		Severity:    Info,
		Type:        InfoType,
		Protocol:    snapshotProtocol,
		Metadata:    metadata,
	}
}

// InsolvencyAlertID - alert id of the insolvency alert for a network
func InsolvencyAlertID(network string) string {
	return fmt.Sprintf("L1 %s escrow insolvent", network)
}

// NewInsolvency - critical alert: escrow on the anchor holds less than the dependent supply
func NewInsolvency(network string, escrow *big.Int, supply *big.Int) Alert {
	return Alert{
		AlertID:     InsolvencyAlertID(network),
		Name:        fmt.Sprintf("Total supply of MakerDao l1 escrow is less than %s Dai supply on l2", network),
		Description: fmt.Sprintf("balances: l1Escrow-> %s, %s l2Supply-> %s", escrow.String(), network, supply.String()),
		Severity:    Critical,
		Type:        Exploit,
		Protocol:    network,
		Metadata: map[string]string{
			"l1Escrow": escrow.String(),
			"L2supply": supply.String(),
		},
	}
}
