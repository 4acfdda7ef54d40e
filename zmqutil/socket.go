// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
	lingerTime        = 500 * time.Millisecond
)

const zapDomain = "solvencyd"

// endpoint - accept host:port or a full zmq endpoint
func endpoint(address string) string {
	if strings.Contains(address, "://") {
		return address
	}
	if strings.HasPrefix(address, "*:") {
		address = "[::]:" + address[2:]
	}
	return "tcp://" + address
}

// NewPublisher - a PUB socket bound to every listen address
//
// with keys the socket acts as a CURVE server accepting any client key
func NewPublisher(log *logger.L, keys *Keys, listen []string) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, err
	}

	if nil != keys {
		err = startAuthentication()
		if nil != err {
			socket.Close()
			return nil, err
		}

		_ = socket.SetCurveServer(1)
		_ = socket.SetCurveSecretkey(string(keys.Private))
		_ = socket.SetZapDomain(zapDomain)
	}

	_ = socket.SetIpv6(true)
	_ = socket.SetLinger(lingerTime)
	_ = socket.SetHeartbeatIvl(heartbeatInterval)
	_ = socket.SetHeartbeatTimeout(heartbeatTimeout)
	_ = socket.SetHeartbeatTtl(heartbeatTTL)

	for i, address := range listen {
		bindTo := endpoint(address)
		err = socket.Bind(bindTo)
		if nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			socket.Close()
			return nil, err
		}
		log.Infof("bind[%d]: %q", i, bindTo)
	}
	return socket, nil
}

// NewSubscriber - a SUB socket connected to a publisher, receiving only topic
//
// serverPublicKey is required when keys are given
func NewSubscriber(log *logger.L, keys *Keys, serverPublicKey []byte, connect string, topic string) (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		return nil, err
	}

	if nil != keys {
		_ = socket.SetCurveServer(0)
		_ = socket.SetCurvePublickey(string(keys.Public))
		_ = socket.SetCurveSecretkey(string(keys.Private))
		_ = socket.SetCurveServerkey(string(serverPublicKey))
	}

	_ = socket.SetIpv6(true)
	_ = socket.SetLinger(0)
	_ = socket.SetHeartbeatIvl(heartbeatInterval)
	_ = socket.SetHeartbeatTimeout(heartbeatTimeout)
	_ = socket.SetHeartbeatTtl(heartbeatTTL)

	err = socket.SetSubscribe(topic)
	if nil != err {
		socket.Close()
		return nil, err
	}

	connectTo := endpoint(connect)
	err = socket.Connect(connectTo)
	if nil != err {
		socket.Close()
		return nil, err
	}
	log.Infof("connect to: %q  topic: %q", connectTo, topic)
	return socket, nil
}
