// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
)

// Counter - number of open client connections
// just a 64 bit unsigned integer
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (ic *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(ic), ^uint64(0))
}

// Acquire - increment only while the result stays within maximum
//
// each successful Acquire must be paired with a Decrement
func (ic *Counter) Acquire(maximum uint64) bool {
	for {
		current := atomic.LoadUint64((*uint64)(ic))
		if current >= maximum {
			return false
		}
		if atomic.CompareAndSwapUint64((*uint64)(ic), current, current+1) {
			return true
		}
	}
}

// Uint64 - returns current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}
