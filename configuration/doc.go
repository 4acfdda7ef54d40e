// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - read a Lua configuration file into a struct
//
// the file must return a table; command line definitions are set as
// globals first so a single file can describe several instances, and
// os.getenv remains available for secrets such as node URLs
package configuration
