// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/counter"
	"github.com/bridgewatch/solvencyd/fault"
)

const (
	logName            = "client_rpc"
	minConnectionCount = 1
)

// Listener - accepts client connections until stopped
type Listener interface {
	Serve() error
	Addresses() []net.Addr
	Stop()
}

// RPCConfiguration - configuration file data for RPC setup
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
}

type rpcListener struct {
	sync.Mutex
	log             *logger.L
	count           *counter.Counter
	server          *rpc.Server
	maxConnections  uint64
	ipType          []string
	listenIPAndPort []string
	listeners       []net.Listener
	stopped         bool
}

// NewRPC - validate the configuration, nothing is bound until Serve
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	count *counter.Counter,
	server *rpc.Server,
) (Listener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.MissingParameters
	}

	addresses, ipType, err := parseListenAddress(configuration.Listen, log)
	if nil != err {
		return nil, err
	}

	return &rpcListener{
		log:             log,
		count:           count,
		server:          server,
		maxConnections:  configuration.MaximumConnections,
		ipType:          ipType,
		listenIPAndPort: addresses,
	}, nil
}

// Serve - bind every address and accept in the background
func (r *rpcListener) Serve() error {
	r.Lock()
	defer r.Unlock()

	for i, listen := range r.listenIPAndPort {
		r.log.Infof("starting RPC server: %s", listen)
		listener, err := net.Listen(r.ipType[i], listen)
		if nil != err {
			r.log.Errorf("rpc server listen error: %s", err)
			for _, l := range r.listeners {
				_ = l.Close()
			}
			r.listeners = nil
			return err
		}
		r.listeners = append(r.listeners, listener)
	}

	for _, listener := range r.listeners {
		go r.accept(listener)
	}
	return nil
}

// Addresses - bound addresses, resolves a zero port
func (r *rpcListener) Addresses() []net.Addr {
	r.Lock()
	defer r.Unlock()

	addresses := make([]net.Addr, len(r.listeners))
	for i, l := range r.listeners {
		addresses[i] = l.Addr()
	}
	return addresses
}

// Stop - close all listeners, open connections finish on their own
func (r *rpcListener) Stop() {
	r.Lock()
	defer r.Unlock()

	r.stopped = true
	for _, l := range r.listeners {
		_ = l.Close()
	}
	r.listeners = nil
}

func (r *rpcListener) isStopped() bool {
	r.Lock()
	defer r.Unlock()
	return r.stopped
}

func (r *rpcListener) accept(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if nil != err {
			if r.isStopped() {
				r.log.Infof("rpc accept stopped: %s", listener.Addr())
			} else {
				r.log.Errorf("rpc accept terminated: %s  error: %s", listener.Addr(), err)
			}
			return
		}
		if !r.count.Acquire(r.maxConnections) {
			r.log.Warnf("connection limit reached, reject: %s", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		go func() {
			r.server.ServeCodec(jsonrpc.NewServerCodec(conn))
			_ = conn.Close()
			r.count.Decrement()
		}()
	}
}

// "*:PORT" listens on tcp4 and tcp6, "[ip]:PORT" on tcp6 and "ip:PORT" on tcp4
func parseListenAddress(addrs []string, log *logger.L) ([]string, []string, error) {
	addresses := make([]string, len(addrs))
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		host, port, err := net.SplitHostPort(strings.TrimSpace(listen))
		if nil != err {
			log.Errorf("rpc server listen: %q  error: %s", listen, err)
			return nil, nil, fault.InvalidIPAddress
		}

		switch {
		case "*" == host:
			host = "::"
			parsed[i] = "tcp"
		case strings.Contains(host, ":"):
			parsed[i] = "tcp6"
		default:
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			err := fault.InvalidIPAddress
			log.Errorf("rpc server listen: %q  error: %s", listen, err)
			return nil, nil, err
		}
		addresses[i] = net.JoinHostPort(host, port)
	}

	return addresses, parsed, nil
}
