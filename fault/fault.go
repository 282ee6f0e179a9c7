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
type CancelledError GenericError
type ConnectionError GenericError
type ConsensusError GenericError
type IOError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type TimeoutError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised       = ProcessError("already initialised")
	ErrCannotOpenGenesisFile    = IOError("cannot open genesis transaction file")
	ErrCannotReadGenesisFile    = IOError("cannot read from genesis transaction file")
	ErrDuplicateNodeAlias       = InvalidError("duplicate node alias")
	ErrEmptyGenesis             = InvalidError("empty genesis transaction file")
	ErrInsufficientValidators   = InvalidError("insufficient validators for fault tolerance")
	ErrInvalidClientAddress     = InvalidError("invalid node client address")
	ErrInvalidConfiguration     = InvalidError("configuration file must return a table")
	ErrInvalidCount             = InvalidError("invalid count")
	ErrInvalidIPAddress         = InvalidError("invalid IP address")
	ErrInvalidKeyFile           = InvalidError("invalid key file")
	ErrInvalidLedgerType        = InvalidError("invalid ledger type")
	ErrInvalidLoggerChannel     = InvalidError("invalid logger channel")
	ErrInvalidNodeAlias         = InvalidError("invalid node alias")
	ErrInvalidNodeTimeout       = InvalidError("invalid node timeout")
	ErrInvalidPendingLimit      = InvalidError("invalid pending request limit")
	ErrInvalidPortNumber        = InvalidError("invalid port number")
	ErrInvalidPrivateKey        = InvalidError("invalid private key")
	ErrInvalidProtocolVersion   = InvalidError("invalid protocol version")
	ErrInvalidPublicKey         = InvalidError("invalid public key")
	ErrInvalidReply             = InvalidError("invalid node reply")
	ErrInvalidRequestTimeout    = InvalidError("invalid request timeout")
	ErrInvalidSequenceNumber    = InvalidError("invalid sequence number")
	ErrInvalidStructPointer     = InvalidError("invalid struct pointer")
	ErrInvalidVerkey            = InvalidError("invalid node verification key")
	ErrKeyFileAlreadyExists     = IOError("key file already exists")
	ErrMalformedGenesis         = InvalidError("genesis txn is malformed json")
	ErrMissingNodeData          = InvalidError("genesis txn has no node data")
	ErrMissingPoolParameters    = InvalidError("pool requires a registry and a networker")
	ErrNetworkerClosed          = ConnectionError("networker is closed")
	ErrNoConsensus              = ConsensusError("no consensus")
	ErrNoNodesContacted         = ConnectionError("no nodes could be contacted")
	ErrNodeTimeout              = ConnectionError("node response timeout")
	ErrNodeUnreachable          = ConnectionError("node unreachable")
	ErrNotConnected             = ConnectionError("not connected")
	ErrNotFound                 = NotFoundError("not found")
	ErrPoolClosed               = ProcessError("pool is closed")
	ErrRateLimiting             = ProcessError("rate limiting")
	ErrRequestCancelled         = CancelledError("request cancelled")
	ErrRequestTimeout           = TimeoutError("request deadline exceeded")
	ErrSendQueueFull            = ProcessError("send queue full")
	ErrTooManyPendingRequests   = ProcessError("too many pending requests")
	ErrUnknownNode              = NotFoundError("unknown node")
	ErrUnsupportedNormalisation = InvalidError("reply cannot be normalised")
	ErrUnsupportedPoolMode      = InvalidError("unsupported pool mode")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e CancelledError) Error() string  { return string(e) }
func (e ConnectionError) Error() string { return string(e) }
func (e ConsensusError) Error() string  { return string(e) }
func (e IOError) Error() string         { return string(e) }
func (e InvalidError) Error() string    { return string(e) }
func (e NotFoundError) Error() string   { return string(e) }
func (e ProcessError) Error() string    { return string(e) }
func (e TimeoutError) Error() string    { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrCancelled(e error) bool  { var c CancelledError; return errors.As(e, &c) }
func IsErrConnection(e error) bool { var c ConnectionError; return errors.As(e, &c) }
func IsErrConsensus(e error) bool  { var c ConsensusError; return errors.As(e, &c) }
func IsErrIO(e error) bool         { var c IOError; return errors.As(e, &c) }
func IsErrInvalid(e error) bool    { var c InvalidError; return errors.As(e, &c) }
func IsErrNotFound(e error) bool   { var c NotFoundError; return errors.As(e, &c) }
func IsErrProcess(e error) bool    { var c ProcessError; return errors.As(e, &c) }
func IsErrTimeout(e error) bool    { var c TimeoutError; return errors.As(e, &c) }
