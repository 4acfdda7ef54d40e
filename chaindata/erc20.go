// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bridgewatch/solvencyd/fault"
)

// only the two read methods are needed
const erc20JSON = `[
  {"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// ERC20 - parsed interface of the token reads
var ERC20 = mustParseABI(erc20JSON)

func mustParseABI(s string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if nil != err {
		panic("erc20 abi: " + err.Error())
	}
	return &parsed
}

// BalanceOf - token balance of holder at a block
func BalanceOf(ctx context.Context, r Reader, token common.Address, holder common.Address, block uint64) (*big.Int, error) {
	values, err := r.Call(ctx, token, ERC20, "balanceOf", block, holder)
	if nil != err {
		return nil, fmt.Errorf("balanceOf %s at %d: %w", holder.Hex(), block, err)
	}
	return firstAmount(values)
}

// TotalSupply - total supply of a token at a block
func TotalSupply(ctx context.Context, r Reader, token common.Address, block uint64) (*big.Int, error) {
	values, err := r.Call(ctx, token, ERC20, "totalSupply", block)
	if nil != err {
		return nil, fmt.Errorf("totalSupply %s at %d: %w", token.Hex(), block, err)
	}
	return firstAmount(values)
}

func firstAmount(values []interface{}) (*big.Int, error) {
	if 0 == len(values) {
		return nil, fault.EmptyResult
	}
	amount, ok := values[0].(*big.Int)
	if !ok || nil == amount {
		return nil, fault.UnexpectedResultType
	}
	return amount, nil
}
