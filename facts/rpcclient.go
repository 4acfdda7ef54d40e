// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package facts

import (
	"context"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/util"
)

// QueryMethod - name of the JSON-RPC method serving fact queries
const QueryMethod = "Facts.Query"

// RPCClient - facts from another instance's JSON-RPC listener
type RPCClient struct {
	sync.Mutex
	log     *logger.L
	address string
	timeout time.Duration
	client  *rpc.Client
}

// NewRPCClient - client for host:port, connected on first use
func NewRPCClient(log *logger.L, address string, timeout time.Duration) (*RPCClient, error) {
	canonical, err := util.CanonicalIPandPort(address)
	if nil != err {
		return nil, err
	}
	return &RPCClient{
		log:     log,
		address: canonical,
		timeout: timeout,
	}, nil
}

func (c *RPCClient) connection() (*rpc.Client, error) {
	c.Lock()
	defer c.Unlock()
	if nil != c.client {
		return c.client, nil
	}
	conn, err := net.DialTimeout("tcp", c.address, c.timeout)
	if nil != err {
		return nil, err
	}
	c.client = jsonrpc.NewClient(conn)
	c.log.Infof("connected to: %s", c.address)
	return c.client, nil
}

// drop the connection so the next call reconnects
func (c *RPCClient) reset(client *rpc.Client) {
	c.Lock()
	defer c.Unlock()
	if client == c.client {
		c.client.Close()
		c.client = nil
	}
}

// Query - one page of facts
func (c *RPCClient) Query(ctx context.Context, q Query) (Page, error) {
	client, err := c.connection()
	if nil != err {
		return Page{}, err
	}

	var reply Page
	call := client.Go(QueryMethod, &q, &reply, make(chan *rpc.Call, 1))

	select {
	case <-ctx.Done():
		c.reset(client)
		return Page{}, ctx.Err()
	case <-call.Done:
	}

	if nil != call.Error {
		if _, ok := call.Error.(rpc.ServerError); !ok {
			c.log.Warnf("connection: %s  error: %s", c.address, call.Error)
			c.reset(client)
		}
		return Page{}, call.Error
	}
	return reply, nil
}

// Close - drop the connection
func (c *RPCClient) Close() {
	c.Lock()
	defer c.Unlock()
	if nil != c.client {
		c.client.Close()
		c.client = nil
	}
}
