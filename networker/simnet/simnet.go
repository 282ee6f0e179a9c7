// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package simnet - an in-memory validator network
//
// Each node is given a Behaviour.  A node with no delay answers
// inside Send, so the order in which the replies of such nodes are
// seen is exactly the order in which they were sent to; this makes
// quorum tests deterministic.  Delayed and silent nodes use timers,
// silent nodes never answer and are reported with a node timeout.
package simnet

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/networker"
)

// Responder - build the reply of a node to one request
type Responder func(requestID uint64, message []byte) []byte

// Behaviour - how a simulated node responds
type Behaviour struct {
	Payload []byte    // fixed reply
	Respond Responder // overrides Payload when set
	Err     error     // reply with this error instead
	Delay   time.Duration
	Silent  bool // never reply
}

// Network - simulated validator network
type Network struct {
	sync.Mutex

	nodeTimeout time.Duration
	maxPending  int
	behaviour   map[string]Behaviour
	opened      map[string]bool
	sends       map[string]int
	pending     map[uint64]int
	cancelled   map[uint64]bool
	timers      map[uint64][]*time.Timer
	closed      bool
}

// Unreachable - behaviour of a node that refuses connections
var Unreachable = Behaviour{Err: fault.ErrNodeUnreachable}

// New - create a network of nodes that are all unreachable until
// given a behaviour
//
// maxPending of zero means no limit
func New(aliases []string, nodeTimeout time.Duration, maxPending int) *Network {
	n := &Network{
		nodeTimeout: nodeTimeout,
		maxPending:  maxPending,
		behaviour:   make(map[string]Behaviour),
		opened:      make(map[string]bool),
		sends:       make(map[string]int),
		pending:     make(map[uint64]int),
		cancelled:   make(map[uint64]bool),
		timers:      make(map[uint64][]*time.Timer),
	}
	for _, alias := range aliases {
		n.behaviour[alias] = Unreachable
	}
	return n
}

// SetBehaviour - change how a node responds
func (n *Network) SetBehaviour(alias string, b Behaviour) {
	n.Lock()
	n.behaviour[alias] = b
	n.Unlock()
}

// Open - mark nodes as connected
func (n *Network) Open(nodes []string) error {
	n.Lock()
	defer n.Unlock()

	if n.closed {
		return fault.ErrNetworkerClosed
	}
	for _, alias := range nodes {
		if _, ok := n.behaviour[alias]; !ok {
			return fault.ErrUnknownNode
		}
		n.opened[alias] = true
	}
	return nil
}

// Send - simulate delivery of a message to a node
func (n *Network) Send(requestID uint64, node string, message []byte, replies chan<- networker.Reply) error {
	n.Lock()
	defer n.Unlock()

	if n.closed {
		return fault.ErrNetworkerClosed
	}
	b, ok := n.behaviour[node]
	if !ok {
		return fault.ErrUnknownNode
	}
	if _, active := n.pending[requestID]; !active && n.maxPending > 0 && len(n.pending) >= n.maxPending {
		return fault.ErrTooManyPendingRequests
	}

	n.opened[node] = true
	n.sends[node] += 1
	n.pending[requestID] += 1
	start := time.Now()

	reply := networker.Reply{
		RequestID: requestID,
		Node:      node,
	}
	if nil != b.Err {
		reply.Err = b.Err
	} else if nil != b.Respond {
		reply.Payload = b.Respond(requestID, message)
	} else {
		reply.Payload = b.Payload
	}

	delay := b.Delay
	if b.Silent || (n.nodeTimeout > 0 && delay > n.nodeTimeout) {
		delay = n.nodeTimeout
		reply.Payload = nil
		reply.Err = fault.ErrNodeTimeout
	}

	if 0 == delay && !b.Silent {
		n.deliver(reply, start, replies)
		return nil
	}

	timer := time.AfterFunc(delay, func() {
		n.Lock()
		defer n.Unlock()
		if n.cancelled[requestID] || n.closed {
			return
		}
		n.deliver(reply, start, replies)
	})
	n.timers[requestID] = append(n.timers[requestID], timer)
	return nil
}

// must hold lock
func (n *Network) deliver(reply networker.Reply, start time.Time, replies chan<- networker.Reply) {
	reply.Received = time.Now()
	reply.Elapsed = reply.Received.Sub(start)

	select {
	case replies <- reply:
	default:
	}

	n.pending[reply.RequestID] -= 1
	if n.pending[reply.RequestID] <= 0 {
		delete(n.pending, reply.RequestID)
		delete(n.timers, reply.RequestID)
	}
}

// Cancel - drop all outstanding sends of a request
func (n *Network) Cancel(requestID uint64) {
	n.Lock()
	defer n.Unlock()

	n.cancelled[requestID] = true
	for _, timer := range n.timers[requestID] {
		timer.Stop()
	}
	delete(n.timers, requestID)
	delete(n.pending, requestID)
}

// Close - stop all timers
func (n *Network) Close() error {
	n.Lock()
	defer n.Unlock()

	for _, timers := range n.timers {
		for _, timer := range timers {
			timer.Stop()
		}
	}
	n.timers = make(map[uint64][]*time.Timer)
	n.pending = make(map[uint64]int)
	n.closed = true
	return nil
}

// Sends - number of sends made to a node
func (n *Network) Sends(alias string) int {
	n.Lock()
	defer n.Unlock()
	return n.sends[alias]
}

// TotalSends - number of sends made to all nodes
func (n *Network) TotalSends() int {
	n.Lock()
	defer n.Unlock()
	total := 0
	for _, count := range n.sends {
		total += count
	}
	return total
}

// WasCancelled - check if a request was cancelled
func (n *Network) WasCancelled(requestID uint64) bool {
	n.Lock()
	defer n.Unlock()
	return n.cancelled[requestID]
}

// Pending - number of requests with outstanding sends
func (n *Network) Pending() int {
	n.Lock()
	defer n.Unlock()
	return len(n.pending)
}

// IsOpen - check if a node has been opened
func (n *Network) IsOpen(alias string) bool {
	n.Lock()
	defer n.Unlock()
	return n.opened[alias]
}

// GetTxnReply - responder answering any GET_TXN with the given
// transaction data as a REPLY
func GetTxnReply(data string) Responder {
	return func(requestID uint64, message []byte) []byte {
		var request struct {
			Operation struct {
				Data int64 `json:"data"`
			} `json:"operation"`
		}
		_ = json.Unmarshal(message, &request)

		return []byte(fmt.Sprintf(`{"op":"REPLY","result":{"type":"3","reqId":%d,"seqNo":%d,"data":%s,"state_proof":{"timestamp":%d}}}`,
			requestID, request.Operation.Data, data, time.Now().UnixNano()))
	}
}
