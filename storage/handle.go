// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bridgewatch/solvencyd/fault"
)

// Handle - the access methods of a single pool
type Handle interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Range(start []byte, limit []byte, count int) ([]Element, error)
}

// PoolHandle - one prefixed table of the database
type PoolHandle struct {
	prefix   byte
	limit    []byte
	database *leveldb.DB
	cache    Cache
	readOnly bool
}

// a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return fault.NotInitialised
	}
	if p.readOnly {
		return leveldb.ErrReadOnly
	}
	prefixed := p.prefixKey(key)
	err := p.database.Put(prefixed, value, nil)
	if nil != err {
		return err
	}
	p.cache.Set(string(prefixed), value)
	return nil
}

// read a value for a given key
//
// returns nil, nil if the key does not exist
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil, fault.NotInitialised
	}
	prefixed := p.prefixKey(key)
	if value, found := p.cache.Get(string(prefixed)); found {
		return value, nil
	}
	value, err := p.database.Get(prefixed, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	p.cache.Set(string(prefixed), value)
	return value, nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return false, fault.NotInitialised
	}
	prefixed := p.prefixKey(key)
	if _, found := p.cache.Get(string(prefixed)); found {
		return true, nil
	}
	return p.database.Has(prefixed, nil)
}

// Range - up to count elements with start <= key < limit in key order
//
// a nil limit means the end of the pool, count <= 0 means no maximum
func (p *PoolHandle) Range(start []byte, limit []byte, count int) ([]Element, error) {
	searchRange := ldb_util.Range{
		Start: p.prefixKey(start),
		Limit: p.limit,
	}
	if nil != limit {
		searchRange.Limit = p.prefixKey(limit)
	}

	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil, fault.NotInitialised
	}

	iter := p.database.NewIterator(&searchRange, nil)
	result := make([]Element, 0, 16)
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		result = append(result, Element{
			Key:   dataKey,
			Value: dataValue,
		})
		if count > 0 && len(result) >= count {
			break
		}
	}
	iter.Release()
	err := iter.Error()
	if nil != err {
		return nil, err
	}
	return result, nil
}
