// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// Redialer - node client that can move to another endpoint
type Redialer interface {
	URL() string
	Redial(ctx context.Context, url string) error
}

// configWatcher - re-reads the configuration file when it changes and
// repoints the node client if ethereum.url was edited
type configWatcher struct {
	log       *logger.L
	watcher   *fsnotify.Watcher
	filePath  string
	variables map[string]string
	client    Redialer
}

func newConfigWatcher(log *logger.L, filePath string, variables map[string]string, client Redialer) (*configWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	// watch the directory so editors that replace the file are seen
	err = watcher.Add(filepath.Dir(filePath))
	if nil != err {
		_ = watcher.Close()
		return nil, err
	}

	return &configWatcher{
		log:       log,
		watcher:   watcher,
		filePath:  filePath,
		variables: variables,
		client:    client,
	}, nil
}

// Run - background process
func (w *configWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

	defer w.watcher.Close()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.filePath {
				continue loop
			}
			if watcherEventFileChange(event) {
				log.Infof("file event: %v", event)
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

// only the node endpoint is applied without a restart
func (w *configWatcher) reload() {
	c, err := getConfiguration(w.filePath, w.variables)
	if nil != err {
		w.log.Errorf("reload: %q  error: %s", w.filePath, err)
		return
	}

	if c.Ethereum.URL == w.client.URL() {
		w.log.Debug("ethereum.url unchanged")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.nodeTimeout)
	defer cancel()

	err = w.client.Redial(ctx, c.Ethereum.URL)
	if nil != err {
		w.log.Errorf("redial: %q  error: %s", c.Ethereum.URL, err)
		return
	}
	w.log.Infof("node endpoint changed to: %q", c.Ethereum.URL)
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}
