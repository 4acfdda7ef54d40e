// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/fixtures"
	"github.com/bridgewatch/solvencyd/storage"
)

const databaseDirectory = "testing-storage"

func setup(t *testing.T) string {
	fixtures.SetupTestLogger()
	_ = os.RemoveAll(databaseDirectory)
	_ = os.Mkdir(databaseDirectory, 0700)

	database := filepath.Join(databaseDirectory, "test")
	err := storage.Initialise(database, storage.ReadWrite)
	assert.Nil(t, err, "initialise error")
	return database
}

func teardown() {
	storage.Finalise()
	_ = os.RemoveAll(databaseDirectory)
	fixtures.TeardownTestLogger()
}

func TestPutGet(t *testing.T) {
	setup(t)
	defer teardown()

	err := storage.Pool.Facts.Put([]byte("key-one"), []byte("value-one"))
	assert.Nil(t, err, "put error")

	value, err := storage.Pool.Facts.Get([]byte("key-one"))
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte("value-one"), value, "wrong value")

	found, err := storage.Pool.Facts.Has([]byte("key-one"))
	assert.Nil(t, err, "has error")
	assert.True(t, found, "key not found")

	// pools are separated by prefix
	value, err = storage.Pool.Alerts.Get([]byte("key-one"))
	assert.Nil(t, err, "get error")
	assert.Nil(t, value, "value leaked across pools")

	found, err = storage.Pool.Alerts.Has([]byte("key-one"))
	assert.Nil(t, err, "has error")
	assert.False(t, found, "key leaked across pools")
}

func TestRange(t *testing.T) {
	setup(t)
	defer teardown()

	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		err := storage.Pool.Facts.Put([]byte(k), []byte("v-"+k))
		assert.Nil(t, err, "put error")
	}
	err := storage.Pool.Alerts.Put([]byte("a0"), []byte("other"))
	assert.Nil(t, err, "put error")

	elements, err := storage.Pool.Facts.Range([]byte("a"), []byte("b"), 0)
	assert.Nil(t, err, "range error")
	assert.Equal(t, 3, len(elements), "wrong count")
	assert.Equal(t, []byte("a1"), elements[0].Key, "prefix not stripped")
	assert.Equal(t, []byte("v-a3"), elements[2].Value, "wrong value")

	elements, err = storage.Pool.Facts.Range([]byte("a2"), nil, 2)
	assert.Nil(t, err, "range error")
	assert.Equal(t, 2, len(elements), "count not applied")
	assert.Equal(t, []byte("a2"), elements[0].Key, "wrong first key")
	assert.Equal(t, []byte("a3"), elements[1].Key, "wrong second key")

	elements, err = storage.Pool.Facts.Range([]byte("b1"), nil, 0)
	assert.Nil(t, err, "range error")
	assert.Equal(t, 1, len(elements), "range crossed into next pool")
}

func TestInitialiseTwice(t *testing.T) {
	database := setup(t)
	defer teardown()

	err := storage.Initialise(database, storage.ReadWrite)
	assert.Equal(t, fault.AlreadyInitialised, err, "second initialise accepted")
}

func TestReadOnly(t *testing.T) {
	database := setup(t)
	defer teardown()

	err := storage.Pool.Facts.Put([]byte("k"), []byte("v"))
	assert.Nil(t, err, "put error")
	storage.Finalise()

	err = storage.Initialise(database, storage.ReadOnly)
	assert.Nil(t, err, "read only initialise error")

	value, err := storage.Pool.Facts.Get([]byte("k"))
	assert.Nil(t, err, "get error")
	assert.Equal(t, []byte("v"), value, "wrong value")

	err = storage.Pool.Facts.Put([]byte("k2"), []byte("v2"))
	assert.NotNil(t, err, "read only put accepted")
}

func TestNotInitialised(t *testing.T) {
	setup(t)
	handle := storage.Pool.Facts
	teardown()

	_, err := handle.Get([]byte("k"))
	assert.Equal(t, fault.NotInitialised, err, "closed database readable")
}
