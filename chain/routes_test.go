// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/fault"
)

func TestDefaultTable(t *testing.T) {
	table := chain.DefaultTable()

	assert.Equal(t, chain.Ethereum, table.Anchor(), "wrong anchor")
	assert.True(t, table.IsAnchor(1), "chain 1 not anchor")
	assert.False(t, table.IsAnchor(10), "chain 10 is anchor")
	assert.Equal(t, common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), table.AnchorToken(), "wrong anchor token")

	r, ok := table.Lookup(chain.Optimism)
	assert.True(t, ok, "optimism missing")
	assert.Equal(t, "Optimism", r.Name, "wrong name")
	assert.Equal(t, "optEscrBal", r.EscrowField, "wrong field")
	assert.Equal(t, common.HexToAddress("0x467194771dAe2967Aef3ECbEDD3Bf9a310C76C65"), r.Escrow, "wrong escrow")

	r, ok = table.Lookup(chain.Arbitrum)
	assert.True(t, ok, "arbitrum missing")
	assert.Equal(t, "Arbitrum", r.Name, "wrong name")
	assert.Equal(t, "ArbEscrBal", r.EscrowField, "wrong field")
	assert.Equal(t, common.HexToAddress("0xA10c7CE4b876998858b1a9E12b10092229539400"), r.Escrow, "wrong escrow")
	assert.Equal(t, common.HexToAddress("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"), r.Token, "wrong token")

	_, ok = table.Lookup(137)
	assert.False(t, ok, "unexpected route for 137")
}

func TestRoutesReturnsCopy(t *testing.T) {
	table := chain.DefaultTable()

	routes := table.Routes()
	assert.Equal(t, 2, len(routes), "wrong route count")
	assert.Equal(t, chain.Optimism, routes[0].ChainID, "wrong order")
	assert.Equal(t, chain.Arbitrum, routes[1].ChainID, "wrong order")

	routes[0].Name = "changed"
	r, _ := table.Lookup(chain.Optimism)
	assert.Equal(t, "Optimism", r.Name, "table mutated through copy")
}

func TestNewRouteTableRejects(t *testing.T) {
	good := chain.Route{ChainID: 10, Name: "Optimism", EscrowField: "optEscrBal"}

	_, err := chain.NewRouteTable(0, common.Address{})
	assert.Equal(t, fault.InvalidChainID, err, "zero anchor accepted")

	_, err = chain.NewRouteTable(1, common.Address{}, chain.Route{ChainID: 1, Name: "x", EscrowField: "y"})
	assert.True(t, fault.IsErrInvalid(err), "anchor accepted as route")

	_, err = chain.NewRouteTable(1, common.Address{}, good, good)
	assert.ErrorIs(t, err, fault.InvalidRoute, "duplicate accepted")

	_, err = chain.NewRouteTable(1, common.Address{}, chain.Route{ChainID: 10, Name: "Optimism"})
	assert.ErrorIs(t, err, fault.InvalidRoute, "missing field accepted")
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "Ethereum", chain.Ethereum.String(), "wrong name")
	assert.Equal(t, "Arbitrum", chain.ID(42161).String(), "wrong name")
	assert.Equal(t, "137", chain.ID(137).String(), "wrong fallback")
}
