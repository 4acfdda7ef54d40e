// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/util"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	publicLength  = 32
	privateLength = 32
)

// Keys - a CURVE key pair as raw 32 byte values
type Keys struct {
	Public  []byte
	Private []byte
}

// MakeKeyPair - create a new public/private keypair and write them to
// separate files
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.EnsureFileExists(publicKeyFileName) {
		return fault.KeyFileAlreadyExists
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fault.KeyFileAlreadyExists
	}

	// keys are generated in Z85 (ZeroMQ Base-85 Encoding) and stored as hex
	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	publicKey = taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	privateKey = taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err = ioutil.WriteFile(publicKeyFileName, []byte(publicKey), 0666); nil != err {
		return err
	}

	if err = ioutil.WriteFile(privateKeyFileName, []byte(privateKey), 0600); nil != err {
		_ = os.Remove(publicKeyFileName)
		return err
	}

	return nil
}

// ReadKeys - load a key pair from files, both names empty means no keys
func ReadKeys(publicKeyFileName string, privateKeyFileName string) (*Keys, error) {
	if "" == publicKeyFileName && "" == privateKeyFileName {
		return nil, nil
	}

	data, err := ioutil.ReadFile(publicKeyFileName)
	if nil != err {
		return nil, err
	}
	public, err := ReadPublicKey(string(data))
	if nil != err {
		return nil, err
	}

	data, err = ioutil.ReadFile(privateKeyFileName)
	if nil != err {
		return nil, err
	}
	private, err := ReadPrivateKey(string(data))
	if nil != err {
		return nil, err
	}

	return &Keys{
		Public:  public,
		Private: private,
	}, nil
}

// ReadPublicKey - read a public key from a string returning it as 32 bytes
func ReadPublicKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if nil != err {
		return nil, err
	}
	if private {
		return nil, fault.InvalidPublicKeyFile
	}
	return data, nil
}

// ReadPrivateKey - read a private key from a string returning it as 32 bytes
func ReadPrivateKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if nil != err {
		return nil, err
	}
	if !private {
		return nil, fault.InvalidPrivateKeyFile
	}
	return data, nil
}

// ParseKey - decode a tagged hex key, second result is true for a private key
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)
	if strings.HasPrefix(s, taggedPrivate) {
		h, err := hex.DecodeString(s[len(taggedPrivate):])
		if nil != err {
			return nil, false, err
		}
		if len(h) != privateLength {
			return nil, false, fault.InvalidPrivateKeyFile
		}
		return h, true, nil
	} else if strings.HasPrefix(s, taggedPublic) {
		h, err := hex.DecodeString(s[len(taggedPublic):])
		if nil != err {
			return nil, false, err
		}
		if len(h) != publicLength {
			return nil, false, fault.InvalidPublicKeyFile
		}
		return h, false, nil
	}

	return nil, false, fault.InvalidPublicKeyFile
}
