// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/background"
)

type poller struct {
	polls    int64
	finished int64
}

func (p *poller) Run(args interface{}, shutdown <-chan struct{}) {
	interval := args.(time.Duration)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			atomic.AddInt64(&p.polls, 1)
		}
	}
	atomic.StoreInt64(&p.finished, 1)
}

func TestStartStop(t *testing.T) {
	p1 := &poller{}
	p2 := &poller{}

	// list of background processes to start
	processes := background.Processes{
		p1,
		p2,
	}

	b := background.Start(processes, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	b.Stop()

	assert.Equal(t, int64(1), atomic.LoadInt64(&p1.finished), "first process not finished")
	assert.Equal(t, int64(1), atomic.LoadInt64(&p2.finished), "second process not finished")
	assert.True(t, atomic.LoadInt64(&p1.polls) > 0, "first process never polled")

	// polling has stopped
	polls := atomic.LoadInt64(&p1.polls)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, polls, atomic.LoadInt64(&p1.polls), "process still running")
}

func TestStopTwice(t *testing.T) {
	b := background.Start(background.Processes{&poller{}}, time.Millisecond)
	b.Stop()
	assert.NotPanics(t, b.Stop, "second stop panicked")

	var nilHandle *background.T
	assert.NotPanics(t, nilHandle.Stop, "nil stop panicked")
}
