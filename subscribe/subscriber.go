// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package subscribe

import (
	"encoding/json"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/constants"
	"github.com/bridgewatch/solvencyd/facts"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/metrics"
	"github.com/bridgewatch/solvencyd/zmqutil"
)

const pollTimeout = 500 * time.Millisecond

// FactRecorder - append-only fact sink
type FactRecorder interface {
	Record(facts.Fact) error
}

// Configuration - a block of configuration data
// this is read from a Lua configuration file
//
// public_key and private_key have no defaults: when both are blank the
// connection is plain, otherwise CURVE is used and server_key must hold
// the publisher's public key.  source is the fact source recorded for
// mirrored snapshots and defaults to the publishing bot id
type Configuration struct {
	Connect    string `gluamapper:"connect" json:"connect"`
	ServerKey  string `gluamapper:"server_key" json:"server_key"`
	PublicKey  string `gluamapper:"public_key" json:"public_key"`
	PrivateKey string `gluamapper:"private_key" json:"private_key"`
	Source     string `gluamapper:"source" json:"source"`
}

// Subscriber - receives snapshot alerts from a publishing node and records them as facts
type Subscriber struct {
	log    *logger.L
	socket *zmq.Socket
	topic  string
	source string
	store  FactRecorder
}

// New - connect to the publisher given in the configuration
func New(log *logger.L, configuration *Configuration, topic string, store FactRecorder) (*Subscriber, error) {
	if "" == configuration.Connect {
		return nil, fault.MissingConfiguration
	}

	keys, err := zmqutil.ReadKeys(configuration.PublicKey, configuration.PrivateKey)
	if nil != err {
		return nil, err
	}

	var serverKey []byte
	if nil != keys {
		serverKey, err = zmqutil.ReadPublicKey(configuration.ServerKey)
		if nil != err {
			return nil, err
		}
	}

	socket, err := zmqutil.NewSubscriber(log, keys, serverKey, configuration.Connect, topic)
	if nil != err {
		return nil, err
	}

	source := configuration.Source
	if "" == source {
		source = constants.PublisherBotID
	}

	return &Subscriber{
		log:    log,
		socket: socket,
		topic:  topic,
		source: source,
		store:  store,
	}, nil
}

// Run - the socket is used only from this goroutine
func (s *Subscriber) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Info("starting…")

	defer s.socket.Close()

	poller := zmq.NewPoller()
	poller.Add(s.socket, zmq.POLLIN)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		polled, err := poller.Poll(pollTimeout)
		if nil != err {
			log.Errorf("poll error: %s", err)
			continue loop
		}
		if 0 == len(polled) {
			continue loop
		}

		frames, err := s.socket.RecvMessageBytes(0)
		if nil != err {
			log.Errorf("receive error: %s", err)
			continue loop
		}
		err = s.process(frames)
		if nil != err {
			log.Warnf("discard message  error: %s", err)
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

// frames: topic, alert JSON
func (s *Subscriber) process(frames [][]byte) error {
	if 2 != len(frames) {
		return fault.MalformedFact
	}
	if s.topic != string(frames[0]) {
		return fault.MalformedFact
	}

	var a alert.Alert
	err := json.Unmarshal(frames[1], &a)
	if nil != err {
		return err
	}
	if s.topic != a.AlertID {
		return fault.MalformedFact
	}

	f := facts.FromAlert(a, s.source)
	err = s.store.Record(f)
	if fault.IsErrExists(err) {
		s.log.Debugf("fact for block: %d already recorded", f.BlockNumber)
		return nil
	}
	if nil != err {
		return err
	}

	s.log.Debugf("recorded fact: %s  block: %d", f.AlertID, f.BlockNumber)
	metrics.FactsRecorded.WithLabelValues("subscribe").Inc()
	return nil
}
