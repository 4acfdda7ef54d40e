// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"strconv"
)

// ID - numeric EVM chain identifier as returned by eth_chainId
type ID uint64

// identifiers of all known chains
const (
	Ethereum ID = 1
	Optimism ID = 10
	Arbitrum ID = 42161
)

// names of all known chains
var names = map[ID]string{
	Ethereum: "Ethereum",
	Optimism: "Optimism",
	Arbitrum: "Arbitrum",
}

// String - display name, or the decimal id for unknown chains
func (id ID) String() string {
	if name, ok := names[id]; ok {
		return name
	}
	return strconv.FormatUint(uint64(id), 10)
}

// Valid - check that a chain id is not zero
func Valid(id ID) bool {
	return 0 != id
}
