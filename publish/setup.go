// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/background"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/zmqutil"
)

// Configuration - a block of configuration data
// this is read from a Lua configuration file
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// globals for background process
type publishData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	brdc *Broadcaster // for broadcasting alerts

	// for background
	background *background.T

	// set once during initialise
	initialised bool
}

// global data
var globalData publishData

// Initialise - start the broadcaster, no broadcast addresses leaves it disabled
func Initialise(configuration *Configuration) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	globalData.log = logger.New("publish")
	globalData.log.Info("starting…")

	if 0 == len(configuration.Broadcast) {
		globalData.log.Info("no broadcast addresses: disabled")
		globalData.initialised = true
		return nil
	}

	keys, err := zmqutil.ReadKeys(configuration.PublicKey, configuration.PrivateKey)
	if nil != err {
		globalData.log.Errorf("read keys: %q, %q  error: %s", configuration.PublicKey, configuration.PrivateKey, err)
		return err
	}

	brdc, err := NewBroadcaster(globalData.log, keys, configuration.Broadcast)
	if nil != err {
		return err
	}
	globalData.brdc = brdc

	// all data initialised
	globalData.initialised = true

	// start background processes
	globalData.log.Info("start background…")

	processes := background.Processes{
		globalData.brdc,
	}

	globalData.background = background.Start(processes, nil)

	return nil
}

// Emitter - the broadcaster, or nil when disabled or not initialised
func Emitter() alert.Emitter {
	globalData.RLock()
	defer globalData.RUnlock()

	if nil == globalData.brdc {
		return nil
	}
	return globalData.brdc
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

	// stop background
	globalData.background.Stop()
	zmqutil.StopAuthentication()
	globalData.brdc = nil
	globalData.background = nil

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}
