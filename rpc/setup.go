// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"net"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/counter"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/rpc/listeners"
	"github.com/bridgewatch/solvencyd/rpc/node"
	"github.com/bridgewatch/solvencyd/rpc/server"
)

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	listener listeners.Listener

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// number of open client connections
var connectionCountRPC counter.Counter

// Initialise - start the client listener, an empty listen list leaves it disabled
func Initialise(configuration *listeners.RPCConfiguration, version string, chain string, querier facts.Querier, head node.Head) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to Start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", "client_rpc")
		globalData.initialised = true
		return nil
	}

	rpcListener, err := listeners.NewRPC(
		configuration,
		log,
		&connectionCountRPC,
		server.Create(log, version, chain, &connectionCountRPC, querier, head),
	)
	if nil != err {
		return err
	}
	err = rpcListener.Serve()
	if nil != err {
		return err
	}
	globalData.listener = rpcListener

	// all data initialised
	globalData.initialised = true

	return nil
}

// Addresses - bound listen addresses, empty when disabled
func Addresses() []net.Addr {
	globalData.RLock()
	defer globalData.RUnlock()

	if nil == globalData.listener {
		return nil
	}
	return globalData.listener.Addresses()
}

// Finalise - stop all background tasks
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	if nil != globalData.listener {
		globalData.listener.Stop()
		globalData.listener = nil
	}

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}
