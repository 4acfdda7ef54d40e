// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bridgewatch/solvencyd/chain"
)

// Reader - read-only view of one chain
type Reader interface {
	ChainID(ctx context.Context) (chain.ID, error)
	Call(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, block uint64, args ...interface{}) ([]interface{}, error)
}

// Backend - the subset of an ethclient.Client used here
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}
