// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Configuration - metrics listener
type Configuration struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// Server - background process serving /metrics
type Server struct {
	log      *logger.L
	listener net.Listener
	server   *http.Server
}

// NewServer - bind the listener, an empty listen address disables metrics
func NewServer(log *logger.L, configuration Configuration) (*Server, error) {
	if "" == configuration.Listen {
		log.Info("metrics disabled")
		return nil, nil
	}

	listener, err := net.Listen("tcp", configuration.Listen)
	if nil != err {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		log:      log,
		listener: listener,
		server: &http.Server{
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
	}, nil
}

// Address - bound address
func (s *Server) Address() string {
	return s.listener.Addr().String()
}

// Run - serve until shutdown
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Infof("serving metrics on: %s", s.Address())

	go func() {
		err := s.server.Serve(s.listener)
		if nil != err && http.ErrServerClosed != err {
			log.Errorf("metrics server error: %s", err)
		}
	}()

	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if nil != err {
		log.Warnf("metrics shutdown error: %s", err)
	}
	log.Info("shutting down…")
	log.Flush()
}
