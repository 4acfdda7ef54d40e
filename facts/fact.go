// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package facts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/bridgewatch/solvencyd/alert"
	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/fault"
)

// default and maximum page sizes
const (
	DefaultFirst = 100
	MaximumFirst = 1000
)

// Fact - an alert published by some source and kept for correlation
type Fact struct {
	AlertID     string            `json:"alertId"`
	Source      string            `json:"source"`
	ChainID     chain.ID          `json:"chainId"`
	BlockNumber uint64            `json:"blockNumber"`
	Metadata    map[string]string `json:"metadata"`
}

// Cursor - position after the last fact of a page
type Cursor struct {
	AlertID     string `json:"alertId"`
	BlockNumber uint64 `json:"blockNumber"`
}

// Query - select facts by alert id, source and inclusive block range
type Query struct {
	AlertID    string  `json:"alertId"`
	Source     string  `json:"source"`
	StartBlock uint64  `json:"startBlock"`
	EndBlock   uint64  `json:"endBlock"`
	First      int     `json:"first"`
	After      *Cursor `json:"after,omitempty"`
}

// Page - one page of query results in block order
type Page struct {
	Facts       []Fact `json:"facts"`
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   Cursor `json:"endCursor"`
}

// Querier - source of published facts
type Querier interface {
	Query(ctx context.Context, q Query) (Page, error)
}

// ForBlock - the query for the snapshot fact of exactly one block
func ForBlock(alertID string, source string, block uint64) Query {
	return Query{
		AlertID:    alertID,
		Source:     source,
		StartBlock: block,
		EndBlock:   block,
		First:      1,
	}
}

// Normalise - validate a query and apply the default page size
func (q Query) Normalise() (Query, error) {
	if "" == q.AlertID || strings.ContainsRune(q.AlertID, 0) {
		return q, fault.InvalidQuery
	}
	if q.StartBlock > q.EndBlock {
		return q, fault.InvalidBlockRange
	}
	if q.First < 0 || q.First > MaximumFirst {
		return q, fault.InvalidCount
	}
	if 0 == q.First {
		q.First = DefaultFirst
	}
	if nil != q.After && q.After.AlertID != q.AlertID {
		return q, fault.InvalidCursor
	}
	return q, nil
}

// Value - metadata value, exact key first then case-insensitive
func (f Fact) Value(key string) (string, bool) {
	if v, ok := f.Metadata[key]; ok {
		return v, true
	}
	for k, v := range f.Metadata {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// Amount - metadata value as a non-negative decimal integer
func (f Fact) Amount(key string) (*big.Int, error) {
	s, ok := f.Value(key)
	if !ok {
		return nil, fmt.Errorf("field %q absent: %w", key, fault.MalformedFact)
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("field %q value %q: %w", key, s, fault.MalformedFact)
	}
	return n, nil
}

// FromAlert - the fact an emitted alert becomes once published
func FromAlert(a alert.Alert, source string) Fact {
	metadata := make(map[string]string, len(a.Metadata))
	for k, v := range a.Metadata {
		metadata[k] = v
	}
	return Fact{
		AlertID:     a.AlertID,
		Source:      source,
		ChainID:     a.ChainID,
		BlockNumber: a.BlockNumber,
		Metadata:    metadata,
	}
}
