// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bridgewatch/solvencyd/counter"
	"github.com/bridgewatch/solvencyd/fixtures"
	"github.com/bridgewatch/solvencyd/mocks"
	"github.com/bridgewatch/solvencyd/rpc/server"
)

type probe struct{}

func (probe) Ping(_ *struct{}, reply *bool) error {
	*reply = true
	return nil
}

func TestCreate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	count := counter.Counter(0)
	s := server.Create(logger.New(fixtures.LogCategory), "1", "Ethereum", &count, mocks.NewMockQuerier(ctl), nil)
	assert.NotNil(t, s, "no server")

	// registering a taken name reports a duplicate
	err := s.RegisterName("Node", probe{})
	assert.NotNil(t, err, "node not registered")
	err = s.RegisterName("Facts", probe{})
	assert.NotNil(t, err, "facts not registered")
}

func TestCreateWithoutQuerier(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	count := counter.Counter(0)
	s := server.Create(logger.New(fixtures.LogCategory), "1", "Ethereum", &count, nil, nil)
	assert.NotNil(t, s, "no server")

	err := s.RegisterName("Facts", probe{})
	assert.Nil(t, err, "facts registered without a querier")
}
