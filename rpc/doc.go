// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - JSON RPC listener serving Node.Info and Facts.Query
//
// a dependent-chain instance configured with the "rpc" facts backend
// reads escrow snapshots recorded by the anchor instance through
// Facts.Query; the standard net/rpc/jsonrpc client is sufficient
package rpc
