// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

import (
	"time"
)

// anchor chain and the token held in escrow there
const (
	AnchorChainID = 1
	AnchorToken   = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
)

// escrows on the anchor chain
const (
	OptimismEscrow = "0x467194771dAe2967Aef3ECbEDD3Bf9a310C76C65"
	ArbitrumEscrow = "0xA10c7CE4b876998858b1a9E12b10092229539400"
)

// bridged token, same address on both dependent chains
const (
	DependentToken = "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"
)

// the escrow snapshot fact and who publishes it
const (
	SnapshotAlertID = "l1-escrow-supply"
	PublisherBotID  = "0x85eec705f35994643c0497a7764c54a808b1333007fccd26b7f8dcf6078cf315"
)

// metadata keys of the snapshot fact
const (
	OptimismEscrowField = "optEscrBal"
	ArbitrumEscrowField = "ArbEscrBal"
)

// the time an emitted alert is remembered to suppress a repeat
const (
	DuplicateTimeout = 10 * time.Minute
)

// maximum blocks evaluated in one poll when the head jumps ahead
const (
	MaximumCatchUp = 100
)
