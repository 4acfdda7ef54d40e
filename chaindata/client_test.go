// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/chaindata"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/fixtures"
)

// records calls and answers from fixed values
type fakeBackend struct {
	sync.Mutex
	chainID  *big.Int
	head     uint64
	reply    []byte
	err      error
	calls    []ethereum.CallMsg
	blocks   []*big.Int
	closed   bool
	deadline bool
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	_, f.deadline = ctx.Deadline()
	return f.chainID, f.err
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) {
	return f.head, f.err
}

func (f *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.Lock()
	defer f.Unlock()
	f.calls = append(f.calls, call)
	f.blocks = append(f.blocks, blockNumber)
	return f.reply, f.err
}

func (f *fakeBackend) Close() {
	f.closed = true
}

func packAmount(t *testing.T, method string, amount *big.Int) []byte {
	data, err := chaindata.ERC20.Methods[method].Outputs.Pack(amount)
	assert.Nil(t, err, "wrong pack error")
	return data
}

func TestClientChainID(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	backend := &fakeBackend{chainID: big.NewInt(42161)}
	c := chaindata.NewClient(logger.New(fixtures.LogCategory), backend, chaindata.Options{Timeout: time.Second})

	id, err := c.ChainID(context.Background())
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, chain.Arbitrum, id, "wrong chain id")
	assert.True(t, backend.deadline, "call had no deadline")

	backend.chainID = big.NewInt(0)
	_, err = c.ChainID(context.Background())
	assert.Equal(t, fault.InvalidChainID, err, "zero chain id accepted")
}

func TestBalanceOfPinsBlock(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	backend := &fakeBackend{reply: packAmount(t, "balanceOf", big.NewInt(1234))}
	c := chaindata.NewClient(logger.New(fixtures.LogCategory), backend, chaindata.Options{})

	token := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	holder := common.HexToAddress("0x467194771dAe2967Aef3ECbEDD3Bf9a310C76C65")

	amount, err := chaindata.BalanceOf(context.Background(), c, token, holder, 15000000)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, big.NewInt(1234), amount, "wrong balance")

	assert.Equal(t, 1, len(backend.calls), "wrong call count")
	assert.Equal(t, token, *backend.calls[0].To, "wrong contract")
	assert.Equal(t, big.NewInt(15000000), backend.blocks[0], "block not pinned")

	expected, _ := chaindata.ERC20.Pack("balanceOf", holder)
	assert.Equal(t, expected, backend.calls[0].Data, "wrong call data")
}

func TestTotalSupply(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	supply, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	backend := &fakeBackend{reply: packAmount(t, "totalSupply", supply)}
	c := chaindata.NewClient(logger.New(fixtures.LogCategory), backend, chaindata.Options{})

	token := common.HexToAddress("0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1")
	amount, err := chaindata.TotalSupply(context.Background(), c, token, 7)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, 0, supply.Cmp(amount), "wrong supply")
	assert.Equal(t, big.NewInt(7), backend.blocks[0], "block not pinned")
}

func TestCallError(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	failure := errors.New("header not found")
	backend := &fakeBackend{err: failure}
	c := chaindata.NewClient(logger.New(fixtures.LogCategory), backend, chaindata.Options{})

	_, err := chaindata.TotalSupply(context.Background(), c, common.Address{}, 1)
	assert.True(t, errors.Is(err, failure), "error not wrapped")
}

func TestClosedClient(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	backend := &fakeBackend{chainID: big.NewInt(1)}
	c := chaindata.NewClient(logger.New(fixtures.LogCategory), backend, chaindata.Options{})
	c.Close()

	assert.True(t, backend.closed, "backend not closed")
	_, err := c.ChainID(context.Background())
	assert.Equal(t, fault.NotInitialised, err, "closed client still usable")
}

func TestCancelledContext(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	backend := &fakeBackend{head: 99}
	c := chaindata.NewClient(logger.New(fixtures.LogCategory), backend, chaindata.Options{RateLimit: 0.001, RateBurst: 1})

	head, err := c.BlockNumber(context.Background())
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, uint64(99), head, "wrong head")

	// burst exhausted so the limiter must wait past the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.BlockNumber(ctx)
	assert.NotNil(t, err, "rate limit not applied")
}
