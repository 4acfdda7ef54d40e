// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. block number = big endian uint64 (8 bytes)
// 4. alert id     = UTF-8 bytes, never containing 0x00
//
// Facts:
//
//   F ++ alert id ++ 0x00 ++ block number   - fact published for a block
//                                             data: JSON encoded fact
//
// Alerts:
//
//   A ++ block number ++ alert id            - alert emitted by this node
//                                             data: JSON encoded alert
package storage
