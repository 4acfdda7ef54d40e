// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bridgewatch/solvencyd/zmqutil"
)

func runKeys(c *cli.Context) error {
	m := getMetadata(c)

	directory := "."
	if c.NArg() > 0 {
		directory = c.Args().First()
	}

	publicKeyFilename := filepath.Join(directory, "publish.public")
	privateKeyFilename := filepath.Join(directory, "publish.private")

	err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)
	return nil
}
