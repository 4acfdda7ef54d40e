// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/zmqutil"
)

const (
	queueSize    = 1000
	drainTimeout = 2 * time.Second
)

// Broadcaster - sends alerts to zmq subscribers
//
// messages are two frames: alert id (the subscription topic) and JSON
type Broadcaster struct {
	log    *logger.L
	socket *zmq.Socket
	queue  chan alert.Alert
}

// NewBroadcaster - bind a publisher socket
func NewBroadcaster(log *logger.L, keys *zmqutil.Keys, listen []string) (*Broadcaster, error) {
	socket, err := zmqutil.NewPublisher(log, keys, listen)
	if nil != err {
		return nil, err
	}
	return &Broadcaster{
		log:    log,
		socket: socket,
		queue:  make(chan alert.Alert, queueSize),
	}, nil
}

// Emit - queue an alert for broadcast without blocking
func (b *Broadcaster) Emit(ctx context.Context, a alert.Alert) error {
	select {
	case b.queue <- a:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fault.QueueFull
	}
}

// Run - the socket is used only from this goroutine
func (b *Broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	log := b.log
	log.Info("starting…")

	defer b.socket.Close()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case a := <-b.queue:
			b.send(a)
		}
	}

	// flush anything queued before shutdown
	deadline := time.After(drainTimeout)
drain:
	for {
		select {
		case a := <-b.queue:
			b.send(a)
		case <-deadline:
			break drain
		default:
			break drain
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

func (b *Broadcaster) send(a alert.Alert) {
	data, err := json.Marshal(a)
	if nil != err {
		b.log.Errorf("marshal alert: %s  error: %s", a.AlertID, err)
		return
	}
	_, err = b.socket.SendMessage(a.AlertID, data)
	if nil != err {
		b.log.Errorf("send alert: %s  error: %s", a.AlertID, err)
		return
	}
	b.log.Debugf("sent alert: %s  block: %d", a.AlertID, a.BlockNumber)
}

// Endpoint - last bound endpoint, resolves a wildcard port
//
// only valid before Run is started
func (b *Broadcaster) Endpoint() (string, error) {
	return b.socket.GetLastEndpoint()
}
