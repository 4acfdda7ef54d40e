// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bridgewatch/solvencyd/fault"
)

// Limit - wait for a single request token
func Limit(limiter *rate.Limiter) error {
	return wait(limiter, 1)
}

// LimitN - wait for count tokens
//
// an out of range count is charged as one request and rejected
func LimitN(limiter *rate.Limiter, count int, maximumCount int) error {
	if count <= 0 || count > maximumCount {
		if err := wait(limiter, 1); nil != err {
			return err
		}
		return fault.InvalidCount
	}
	return wait(limiter, count)
}

func wait(limiter *rate.Limiter, n int) error {
	r := limiter.ReserveN(time.Now(), n)
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}
