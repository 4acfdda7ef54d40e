// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"

	zmq "github.com/pebbe/zmq4"
)

// process-wide ZAP handler state
var authentication struct {
	sync.Mutex
	started bool
}

// startAuthentication - start the ZAP handler once
//
// any client presenting a CURVE key may connect to sockets in zapDomain
func startAuthentication() error {
	authentication.Lock()
	defer authentication.Unlock()

	if authentication.started {
		return nil
	}

	zmq.AuthSetVerbose(false)
	err := zmq.AuthStart()
	if nil != err {
		return err
	}
	zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)
	authentication.started = true
	return nil
}

// StopAuthentication - stop the ZAP handler if a publisher started it
func StopAuthentication() {
	authentication.Lock()
	defer authentication.Unlock()

	if !authentication.started {
		return
	}
	zmq.AuthStop()
	authentication.started = false
}
