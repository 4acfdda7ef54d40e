// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package monitor

import (
	"fmt"

	"github.com/bridgewatch/solvencyd/fault"
)

// run fn converting a panic into an error
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); nil != r {
				err = fmt.Errorf("%v: %w", r, fault.PanicRecovered)
			}
		}()
		return fn()
	}
}
