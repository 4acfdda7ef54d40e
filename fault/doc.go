// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - fixed error values grouped into classes
//
// compare against the instances directly or test the class with the
// IsErrX functions, which also see through fmt.Errorf %w wrapping
package fault
