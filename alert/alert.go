// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package alert

import (
	"context"
	"strings"

	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/fault"
)

// Severity - how urgent an alert is
type Severity int

// severities in increasing order
const (
	Unknown Severity = iota
	Info
	Low
	Medium
	High
	Critical
)

var severityNames = []string{"Unknown", "Info", "Low", "Medium", "High", "Critical"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return severityNames[Unknown]
	}
	return severityNames[s]
}

// MarshalText - severity as its name
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - severity from its name, case-insensitive
func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if strings.EqualFold(name, string(text)) {
			*s = Severity(i)
			return nil
		}
	}
	return fault.UnknownAlertSeverity
}

// Type - classification of an alert
type Type int

// alert types
const (
	UnknownType Type = iota
	InfoType
	Suspicious
	Exploit
	Degraded
)

var typeNames = []string{"Unknown", "Info", "Suspicious", "Exploit", "Degraded"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return typeNames[UnknownType]
	}
	return typeNames[t]
}

// MarshalText - type as its name
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText - type from its name, case-insensitive
func (t *Type) UnmarshalText(text []byte) error {
	for i, name := range typeNames {
		if strings.EqualFold(name, string(text)) {
			*t = Type(i)
			return nil
		}
	}
	return fault.UnknownAlertType
}

// Alert - a finding produced while evaluating one block
//
// ChainID and BlockNumber are stamped by the dispatcher; the
// constructors in this package leave them zero.
type Alert struct {
	AlertID     string            `json:"alertId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Severity    Severity          `json:"severity"`
	Type        Type              `json:"type"`
	Protocol    string            `json:"protocol"`
	ChainID     chain.ID          `json:"chainId"`
	BlockNumber uint64            `json:"blockNumber"`
	Metadata    map[string]string `json:"metadata"`
}

// Emitter - anything that can deliver an alert
type Emitter interface {
	Emit(context.Context, Alert) error
}

// EmitterFunc - adapt a function to an Emitter
type EmitterFunc func(context.Context, Alert) error

// Emit - call f
func (f EmitterFunc) Emit(ctx context.Context, a Alert) error {
	return f(ctx, a)
}
