// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/zmqutil"
)

const keyDirectory = "testing-keys"

func TestMakeAndReadKeys(t *testing.T) {
	_ = os.RemoveAll(keyDirectory)
	_ = os.Mkdir(keyDirectory, 0700)
	defer os.RemoveAll(keyDirectory)

	public := filepath.Join(keyDirectory, "publish.public")
	private := filepath.Join(keyDirectory, "publish.private")

	err := zmqutil.MakeKeyPair(public, private)
	assert.Nil(t, err, "make error")

	keys, err := zmqutil.ReadKeys(public, private)
	assert.Nil(t, err, "read error")
	assert.Equal(t, 32, len(keys.Public), "wrong public length")
	assert.Equal(t, 32, len(keys.Private), "wrong private length")

	err = zmqutil.MakeKeyPair(public, private)
	assert.Equal(t, fault.KeyFileAlreadyExists, err, "overwrite allowed")

	_, err = zmqutil.ReadKeys(private, public)
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "swapped keys accepted")

	keys, err = zmqutil.ReadKeys("", "")
	assert.Nil(t, err, "wrong error")
	assert.Nil(t, keys, "keys without files")
}

func TestParseKey(t *testing.T) {
	_, _, err := zmqutil.ParseKey("PUBLIC:0102")
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "short key accepted")

	_, _, err = zmqutil.ParseKey("SECRET:00")
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "untagged key accepted")

	data, private, err := zmqutil.ParseKey("  PRIVATE:000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f\n")
	assert.Nil(t, err, "wrong error")
	assert.True(t, private, "not private")
	assert.Equal(t, byte(0x1f), data[31], "wrong decode")
}
