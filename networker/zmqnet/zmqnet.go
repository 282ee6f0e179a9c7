// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqnet

import (
	"time"

	zmq "github.com/pebbe/zmq4"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/networker"
)

type commandKind int

const (
	cmdOpen commandKind = iota
	cmdSend
	cmdStop
)

type command struct {
	kind      commandKind
	requestID uint64
	node      string
	nodes     []string
	message   []byte
	replies   chan<- networker.Reply
	start     time.Time
	done      chan error
}

// Open - connect to the named nodes ahead of the first send
func (z *Networker) Open(nodes []string) error {
	z.Lock()
	if z.closed {
		z.Unlock()
		return fault.ErrNetworkerClosed
	}
	for _, alias := range nodes {
		if _, ok := z.nodes[alias]; !ok {
			z.Unlock()
			return fault.ErrUnknownNode
		}
	}
	z.Unlock()

	done := make(chan error, 1)
	select {
	case z.commands <- command{kind: cmdOpen, nodes: nodes, done: done}:
	case <-z.finished:
		return fault.ErrNetworkerClosed
	}
	z.wake()

	select {
	case err := <-done:
		return err
	case <-z.finished:
		return fault.ErrNetworkerClosed
	}
}

// Send - queue a message for a node
//
// at most one send per node should be made for each request
func (z *Networker) Send(requestID uint64, node string, message []byte, replies chan<- networker.Reply) error {
	z.Lock()
	if z.closed {
		z.Unlock()
		return fault.ErrNetworkerClosed
	}
	if _, ok := z.nodes[node]; !ok {
		z.Unlock()
		return fault.ErrUnknownNode
	}
	count, active := z.active[requestID]
	if !active && len(z.active) >= z.config.MaxPendingRequests {
		z.Unlock()
		return fault.ErrTooManyPendingRequests
	}

	c := command{
		kind:      cmdSend,
		requestID: requestID,
		node:      node,
		message:   message,
		replies:   replies,
		start:     time.Now(),
	}

	// queued under the lock so Close cannot stop the runner in between
	select {
	case z.commands <- c:
		z.active[requestID] = count + 1
	default:
		z.Unlock()
		return fault.ErrSendQueueFull
	}
	z.Unlock()

	z.wake()
	return nil
}

// Cancel - abandon all outstanding sends of a request
func (z *Networker) Cancel(requestID uint64) {
	z.Lock()
	delete(z.active, requestID)
	z.Unlock()
	z.cancelled.Set(cancelKey(requestID), true, cache.DefaultExpiration)
}

// Close - stop the runner and close all sockets
//
// sends still outstanding receive fault.ErrNetworkerClosed
func (z *Networker) Close() error {
	z.Lock()
	if z.closed {
		z.Unlock()
		return nil
	}
	z.closed = true
	z.Unlock()

	z.commands <- command{kind: cmdStop}
	z.wake()
	<-z.finished

	z.signalLock.Lock()
	err := z.signal.Close()
	z.signal = nil
	z.signalLock.Unlock()

	z.log.Info("stopped")
	return err
}

// ActiveRequests - number of requests with outstanding sends
func (z *Networker) ActiveRequests() int {
	z.Lock()
	defer z.Unlock()
	return len(z.active)
}

// one send of a request has completed
func (z *Networker) release(requestID uint64) {
	z.Lock()
	defer z.Unlock()
	count, ok := z.active[requestID]
	if !ok {
		return
	}
	if count <= 1 {
		delete(z.active, requestID)
	} else {
		z.active[requestID] = count - 1
	}
}

func (z *Networker) isCancelled(requestID uint64) bool {
	_, found := z.cancelled.Get(cancelKey(requestID))
	return found
}

// interrupt the runner's poll
func (z *Networker) wake() {
	z.signalLock.Lock()
	defer z.signalLock.Unlock()
	if nil != z.signal {
		z.signal.Send("", zmq.DONTWAIT)
	}
}
