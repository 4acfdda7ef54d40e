// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised     = ExistsError("already initialised")
	EmptyResult            = RecordError("contract call returned no values")
	FactAlreadyRecorded    = ExistsError("fact already recorded")
	FactNotFound           = NotFoundError("fact not found")
	InvalidAddress         = InvalidError("invalid address")
	InvalidAmount          = InvalidError("invalid amount")
	InvalidBackend         = InvalidError("invalid fact backend")
	InvalidBlockRange      = InvalidError("invalid block range")
	InvalidChainID         = InvalidError("invalid chain id")
	InvalidCount           = InvalidError("invalid count")
	InvalidCursor          = InvalidError("invalid cursor")
	InvalidIPAddress       = InvalidError("invalid IP address")
	InvalidPortNumber      = InvalidError("invalid port number")
	InvalidPrivateKeyFile  = InvalidError("invalid private key file")
	InvalidPublicKeyFile   = InvalidError("invalid public key file")
	InvalidQuery           = InvalidError("invalid query")
	InvalidRoute           = InvalidError("invalid route")
	InvalidURL             = InvalidError("invalid url")
	KeyFileAlreadyExists   = ExistsError("key file already exists")
	MalformedFact          = RecordError("malformed fact")
	MissingConfiguration   = InvalidError("missing configuration")
	MissingParameters      = InvalidError("missing parameters")
	NotADirectory          = InvalidError("not a directory")
	NotInitialised         = NotFoundError("not initialised")
	PanicRecovered         = ProcessError("panic recovered")
	QueueFull              = ProcessError("queue full")
	RateLimiting           = ProcessError("rate limiting")
	RouteNotFound          = NotFoundError("route not found")
	TooManyConnections     = ProcessError("too many connections")
	UnexpectedResultType   = RecordError("unexpected contract result type")
	UnknownAlertSeverity   = InvalidError("unknown alert severity")
	UnknownAlertType       = InvalidError("unknown alert type")
	UnsupportedFactVersion = RecordError("unsupported fact version")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
func IsErrRecord(e error) bool   { var t RecordError; return errors.As(e, &t) }
