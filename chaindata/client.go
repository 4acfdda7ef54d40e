// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaindata

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"

	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/fault"
)

// defaults when options are zero
const (
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 20.0
	defaultRateBurst = 40
)

// Options - limits applied to every node request
type Options struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	RateBurst int
}

// Client - rate limited node access with a per-call deadline
type Client struct {
	sync.RWMutex
	log     *logger.L
	url     string
	backend Backend
	limiter *rate.Limiter
	timeout time.Duration
}

// Dial - connect to an Ethereum JSON-RPC endpoint
func Dial(ctx context.Context, log *logger.L, url string, options Options) (*Client, error) {
	if "" == url {
		return nil, fault.InvalidURL
	}
	backend, err := ethclient.DialContext(ctx, url)
	if nil != err {
		return nil, err
	}
	c := NewClient(log, backend, options)
	c.url = url
	return c, nil
}

// NewClient - wrap an existing backend
func NewClient(log *logger.L, backend Backend, options Options) *Client {
	if 0 == options.Timeout {
		options.Timeout = defaultTimeout
	}
	if 0 == options.RateLimit {
		options.RateLimit = defaultRateLimit
	}
	if 0 == options.RateBurst {
		options.RateBurst = defaultRateBurst
	}
	return &Client{
		log:     log,
		backend: backend,
		limiter: rate.NewLimiter(rate.Limit(options.RateLimit), options.RateBurst),
		timeout: options.Timeout,
	}
}

// Redial - switch to a different endpoint, closing the old connection
func (c *Client) Redial(ctx context.Context, url string) error {
	if "" == url {
		return fault.InvalidURL
	}
	backend, err := ethclient.DialContext(ctx, url)
	if nil != err {
		return err
	}
	c.replace(url, backend)
	return nil
}

func (c *Client) replace(url string, backend Backend) {
	c.Lock()
	old := c.backend
	c.backend = backend
	c.url = url
	c.Unlock()

	if nil != old {
		old.Close()
	}
	c.log.Infof("endpoint now: %q", url)
}

// URL - current endpoint
func (c *Client) URL() string {
	c.RLock()
	defer c.RUnlock()
	return c.url
}

// Close - release the connection
func (c *Client) Close() {
	c.Lock()
	defer c.Unlock()
	if nil != c.backend {
		c.backend.Close()
		c.backend = nil
	}
}

func (c *Client) current() (Backend, error) {
	c.RLock()
	defer c.RUnlock()
	if nil == c.backend {
		return nil, fault.NotInitialised
	}
	return c.backend, nil
}

// wait for the limiter then derive the per-call deadline
func (c *Client) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); nil != err {
		return nil, nil, err
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	return callCtx, cancel, nil
}

// ChainID - chain id reported by the node
func (c *Client) ChainID(ctx context.Context) (chain.ID, error) {
	backend, err := c.current()
	if nil != err {
		return 0, err
	}
	callCtx, cancel, err := c.begin(ctx)
	if nil != err {
		return 0, err
	}
	defer cancel()

	id, err := backend.ChainID(callCtx)
	if nil != err {
		return 0, err
	}
	if !id.IsUint64() || 0 == id.Sign() {
		return 0, fault.InvalidChainID
	}
	return chain.ID(id.Uint64()), nil
}

// BlockNumber - current head of the chain
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	backend, err := c.current()
	if nil != err {
		return 0, err
	}
	callCtx, cancel, err := c.begin(ctx)
	if nil != err {
		return 0, err
	}
	defer cancel()

	return backend.BlockNumber(callCtx)
}

// Call - invoke a read-only contract method pinned to a block
func (c *Client) Call(ctx context.Context, contract common.Address, contractABI *abi.ABI, method string, block uint64, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if nil != err {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	backend, err := c.current()
	if nil != err {
		return nil, err
	}
	callCtx, cancel, err := c.begin(ctx)
	if nil != err {
		return nil, err
	}
	defer cancel()

	msg := ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}
	result, err := backend.CallContract(callCtx, msg, new(big.Int).SetUint64(block))
	if nil != err {
		return nil, err
	}
	c.log.Tracef("call %s.%s at %d: %x", contract.Hex(), method, block, result)

	values, err := contractABI.Unpack(method, result)
	if nil != err {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}
