// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/fault"
)

// Route - how a dependent chain is bridged to the anchor chain
type Route struct {
	ChainID     ID             // dependent chain
	Name        string         // display name used in alert texts
	EscrowField string         // metadata key of the escrow balance in the snapshot fact
	Escrow      common.Address // escrow holding the anchor token on the anchor chain
	Token       common.Address // bridged token contract on the dependent chain
}

// RouteTable - immutable mapping of dependent chains to their routes
type RouteTable struct {
	anchor      ID
	anchorToken common.Address
	order       []ID
	routes      map[ID]Route
}

// NewRouteTable - build a table, rejecting duplicates and the anchor as a dependent
func NewRouteTable(anchor ID, anchorToken common.Address, routes ...Route) (*RouteTable, error) {
	if !Valid(anchor) {
		return nil, fault.InvalidChainID
	}

	t := &RouteTable{
		anchor:      anchor,
		anchorToken: anchorToken,
		order:       make([]ID, 0, len(routes)),
		routes:      make(map[ID]Route, len(routes)),
	}

	for _, r := range routes {
		if !Valid(r.ChainID) || anchor == r.ChainID {
			return nil, fmt.Errorf("route %q: %w", r.Name, fault.InvalidChainID)
		}
		if "" == r.Name || "" == r.EscrowField {
			return nil, fmt.Errorf("chain %d: %w", r.ChainID, fault.InvalidRoute)
		}
		if _, ok := t.routes[r.ChainID]; ok {
			return nil, fmt.Errorf("chain %d duplicated: %w", r.ChainID, fault.InvalidRoute)
		}
		t.routes[r.ChainID] = r
		t.order = append(t.order, r.ChainID)
	}
	return t, nil
}

// DefaultTable - the DAI bridges of Optimism and Arbitrum
func DefaultTable() *RouteTable {
	t, err := NewRouteTable(
		ID(constants.AnchorChainID),
		common.HexToAddress(constants.AnchorToken),
		Route{
			ChainID:     Optimism,
			Name:        "Optimism",
			EscrowField: constants.OptimismEscrowField,
			Escrow:      common.HexToAddress(constants.OptimismEscrow),
			Token:       common.HexToAddress(constants.DependentToken),
		},
		Route{
			ChainID:     Arbitrum,
			Name:        "Arbitrum",
			EscrowField: constants.ArbitrumEscrowField,
			Escrow:      common.HexToAddress(constants.ArbitrumEscrow),
			Token:       common.HexToAddress(constants.DependentToken),
		},
	)
	if nil != err {
		panic("default route table: " + err.Error())
	}
	return t
}

// Anchor - the chain holding the escrows
func (t *RouteTable) Anchor() ID {
	return t.anchor
}

// AnchorToken - token contract on the anchor chain
func (t *RouteTable) AnchorToken() common.Address {
	return t.anchorToken
}

// IsAnchor - true if id is the anchor chain
func (t *RouteTable) IsAnchor(id ID) bool {
	return t.anchor == id
}

// Lookup - route of a dependent chain
func (t *RouteTable) Lookup(id ID) (Route, bool) {
	r, ok := t.routes[id]
	return r, ok
}

// Routes - copy of all routes in construction order
func (t *RouteTable) Routes() []Route {
	result := make([]Route, 0, len(t.order))
	for _, id := range t.order {
		result = append(result, t.routes[id])
	}
	return result
}
