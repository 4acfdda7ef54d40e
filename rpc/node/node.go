// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bridgewatch/solvencyd/counter"
	"github.com/bridgewatch/solvencyd/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Head - progress of block evaluation
type Head interface {
	Last() uint64
}

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	Chain   string
	head    Head
	counter *counter.Counter
}

// New - head may be nil when nothing is being watched
func New(log *logger.L, start time.Time, version string, chain string, counter *counter.Counter, head Head) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		Chain:   chain,
		head:    head,
		counter: counter,
	}
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Chain   string `json:"chain"`
	Block   uint64 `json:"block"`
	RPCs    uint64 `json:"rpcs"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Info - return some information about this node
// only enough for clients to determine node state
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Chain = node.Chain
	if nil != node.head {
		reply.Block = node.head.Last()
	}
	reply.RPCs = node.counter.Uint64()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
