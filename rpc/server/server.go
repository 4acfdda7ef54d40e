// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/counter"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/rpc/node"
	"github.com/bridgewatch/solvencyd/rpc/query"
)

// Create - register all RPC handlers
//
// the fact query handler is only registered when querier is not nil
func Create(log *logger.L, version string, chain string, rpcCount *counter.Counter, querier facts.Querier, head node.Head) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(node.New(log, start, version, chain, rpcCount, head))
	if nil != querier {
		_ = server.Register(query.New(log, querier))
	}

	return server
}
