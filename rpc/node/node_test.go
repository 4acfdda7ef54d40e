// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node_test

import (
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/counter"
	"github.com/bridgewatch/solvencyd/fixtures"
	"github.com/bridgewatch/solvencyd/rpc/node"
)

type fixedHead uint64

func (h fixedHead) Last() uint64 {
	return uint64(h)
}

func TestNodeInfo(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctr := counter.Counter(3)
	n := node.New(
		logger.New(fixtures.LogCategory),
		time.Now().Add(-time.Minute),
		"1.2.3",
		"Optimism",
		&ctr,
		fixedHead(123456),
	)

	var reply node.InfoReply
	err := n.Info(&node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong info")
	assert.Equal(t, "Optimism", reply.Chain, "wrong chain")
	assert.Equal(t, uint64(123456), reply.Block, "wrong block")
	assert.Equal(t, uint64(3), reply.RPCs, "wrong rpc count")
	assert.Equal(t, "1.2.3", reply.Version, "wrong version")
	assert.NotEqual(t, "", reply.Uptime, "missing uptime")
}

func TestNodeInfoWithoutHead(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctr := counter.Counter(0)
	n := node.New(logger.New(fixtures.LogCategory), time.Now(), "1", "Ethereum", &ctr, nil)

	var reply node.InfoReply
	err := n.Info(&node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong info")
	assert.Equal(t, uint64(0), reply.Block, "wrong block")
}
