// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"net"
	"net/rpc/jsonrpc"

	"github.com/urfave/cli"

	"github.com/bridgewatch/solvencyd/rpc/node"
	"github.com/bridgewatch/solvencyd/util"
)

func runInfo(c *cli.Context) error {
	m := getMetadata(c)

	address, err := util.CanonicalIPandPort(c.String("connect"))
	if nil != err {
		return err
	}

	conn, err := net.DialTimeout("tcp", address, m.timeout)
	if nil != err {
		return err
	}
	client := jsonrpc.NewClient(conn)
	defer client.Close()

	var reply node.InfoReply
	err = client.Call("Node.Info", &node.InfoArguments{}, &reply)
	if nil != err {
		return err
	}
	return printJson(m.w, reply)
}
