// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package networker - contact validator nodes
//
// A Networker delivers a serialised request to a named node and
// reports the outcome asynchronously on a channel supplied by the
// caller.  Exactly one Reply is delivered for every successful Send
// unless the request is cancelled first, in which case the reply may
// or may not arrive and must be ignored.  Replies arrive in
// completion order, not in the order the sends were made.
//
// Send and Cancel never block.  The reply channel must have room for
// every reply of the request; a full channel drops the reply.
package networker

import (
	"time"
)

//go:generate mockgen -destination=../networker/mocks/networker.go -package=mocks github.com/bitmark-inc/ledgerclient/networker Networker

// Reply - outcome of one send to one node
//
// Err is set when the node could not be reached or did not answer
// within the node timeout; otherwise Payload holds the raw reply.
type Reply struct {
	RequestID uint64
	Node      string
	Payload   []byte
	Err       error
	Elapsed   time.Duration
	Received  time.Time
}

// Networker - transport to the validator set
type Networker interface {
	// establish or reuse connections to the named nodes
	Open(nodes []string) error

	// start delivering message to node on behalf of a request
	Send(requestID uint64, node string, message []byte, replies chan<- Reply) error

	// abandon all outstanding sends of a request, idempotent
	Cancel(requestID uint64)

	// release all connections
	Close() error
}
