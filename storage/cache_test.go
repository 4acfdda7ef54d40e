// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := newCache()

	_, found := c.Get("missing")
	assert.False(t, found, "missing key found")

	c.Set("F1", []byte("one"))
	c.Set("F2", []byte("two"))
	assert.Equal(t, 2, c.Count(), "wrong count")

	value, found := c.Get("F1")
	assert.True(t, found, "key not found")
	assert.Equal(t, []byte("one"), value, "wrong value")

	c.Clear()
	assert.Equal(t, 0, c.Count(), "cache not cleared")
}
