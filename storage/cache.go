// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cache - read cache in front of the database
//
// pools are never deleted from so a cached value stays valid;
// only hits are cached, a miss always goes to the database
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Count() int
	Clear()
}

const (
	cacheExpiration = 2 * time.Minute
	cacheCleanup    = 5 * time.Minute
)

type dbCache struct {
	cache *cache.Cache
}

func newCache() Cache {
	return &dbCache{
		cache: cache.New(cacheExpiration, cacheCleanup),
	}
}

func (c *dbCache) Get(key string) ([]byte, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	return obj.([]byte), true
}

func (c *dbCache) Set(key string, value []byte) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}

func (c *dbCache) Count() int {
	return c.cache.ItemCount()
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
