// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqnet

import (
	"runtime"
	"syscall"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/message"
	"github.com/bitmark-inc/ledgerclient/networker"
	"github.com/bitmark-inc/ledgerclient/zmqutil"
)

type pendingSend struct {
	replies  chan<- networker.Reply
	start    time.Time
	deadline time.Time
}

// all socket state, only touched by the runner goroutine
type runner struct {
	z       *Networker
	log     *logger.L
	poller  *zmqutil.Poller
	signal  *zmq.Socket
	clients map[string]*zmqutil.Client
	sockets map[*zmq.Socket]string
	pending map[uint64]map[string]pendingSend
}

func newRunner(z *Networker, signal *zmq.Socket) *runner {
	return &runner{
		z:       z,
		log:     z.log,
		poller:  zmqutil.NewPoller(),
		signal:  signal,
		clients: make(map[string]*zmqutil.Client),
		sockets: make(map[*zmq.Socket]string),
		pending: make(map[uint64]map[string]pendingSend),
	}
}

func (r *runner) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.z.finished)

	log := r.log
	log.Debug("starting…")

	r.poller.Add(r.signal, zmq.POLLIN)

loop:
	for {
		polled, err := r.poller.Poll(pollInterval)
		if nil != err {
			log.Errorf("poll error: %s", err)
			time.Sleep(pollInterval)
		}
		for _, p := range polled {
			if p.Socket == r.signal {
				r.drainSignal()
				continue
			}
			r.receive(p.Socket)
		}

	commands:
		for {
			select {
			case c := <-r.z.commands:
				if cmdStop == c.kind {
					break loop
				}
				r.process(c)
			default:
				break commands
			}
		}

		r.sweep(time.Now())
	}

	log.Info("shutting down…")
	r.shutdown()
}

func (r *runner) process(c command) {
	switch c.kind {
	case cmdOpen:
		for _, alias := range c.nodes {
			if _, err := r.connect(alias); nil != err {
				c.done <- err
				return
			}
		}
		c.done <- nil

	case cmdSend:
		ps := pendingSend{
			replies:  c.replies,
			start:    c.start,
			deadline: c.start.Add(r.z.config.NodeTimeout),
		}
		if r.z.isCancelled(c.requestID) {
			r.z.release(c.requestID)
			return
		}

		client, err := r.connect(c.node)
		if nil != err {
			r.log.Warnf("node: %s  connect error: %s", c.node, err)
			r.deliver(c.requestID, c.node, ps, nil, fault.ErrNodeUnreachable)
			return
		}

		err = client.Send(c.message)
		if nil != err {
			r.log.Warnf("node: %s  request: %d  send error: %s", c.node, c.requestID, err)
			r.deliver(c.requestID, c.node, ps, nil, err)
			return
		}
		r.log.Debugf("node: %s  request: %d  sent", c.node, c.requestID)

		sends, ok := r.pending[c.requestID]
		if !ok {
			sends = make(map[string]pendingSend)
			r.pending[c.requestID] = sends
		}
		sends[c.node] = ps
	}
}

// lazily create the connection to a node
func (r *runner) connect(alias string) (*zmqutil.Client, error) {
	if client, ok := r.clients[alias]; ok && client.IsConnected() {
		return client, nil
	}

	node := r.z.nodes[alias]
	serverKey, err := zmqutil.ServerKeyFromVerkey(node.Verkey)
	if nil != err {
		return nil, err
	}

	client, err := zmqutil.NewClient(r.z.config.PrivateKey, r.z.config.PublicKey)
	if nil != err {
		return nil, err
	}
	err = client.Connect(node.Address, node.IPv6, serverKey)
	if nil != err {
		return nil, err
	}

	socket := client.BeginPolling(r.poller, zmq.POLLIN)
	r.sockets[socket] = alias
	r.clients[alias] = client

	r.log.Infof("connected to node: %s  address: %s", alias, node.Address)
	return client, nil
}

func (r *runner) drainSignal() {
	for {
		if _, err := r.signal.RecvBytes(zmq.DONTWAIT); nil != err {
			return
		}
	}
}

// read every queued message from a node
func (r *runner) receive(socket *zmq.Socket) {
	alias, ok := r.sockets[socket]
	if !ok {
		return
	}
	client := r.clients[alias]

	for {
		parts, err := client.Receive(zmq.DONTWAIT)
		if zmq.Errno(syscall.EAGAIN) == err {
			return
		}
		if nil != err {
			r.log.Errorf("node: %s  receive error: %s", alias, err)
			return
		}
		if 0 == len(parts) {
			continue
		}
		r.handle(alias, parts[len(parts)-1])
	}
}

func (r *runner) handle(alias string, payload []byte) {
	envelope, err := message.ParseReply(payload)
	if nil != err {
		r.log.Warnf("node: %s  discard reply: %s", alias, err)
		return
	}
	if !envelope.IsFinal() {
		r.log.Debugf("node: %s  request: %d  %s", alias, envelope.RequestID, envelope.Op)
		return
	}

	ps, ok := r.pending[envelope.RequestID][alias]
	if !ok {
		r.log.Debugf("node: %s  request: %d  late reply", alias, envelope.RequestID)
		return
	}
	if r.z.isCancelled(envelope.RequestID) {
		r.forget(envelope.RequestID, alias)
		return
	}
	r.deliver(envelope.RequestID, alias, ps, payload, nil)
}

// time out expired sends and forget cancelled ones
func (r *runner) sweep(now time.Time) {
	for requestID, sends := range r.pending {
		if r.z.isCancelled(requestID) {
			delete(r.pending, requestID)
			continue
		}
		for alias, ps := range sends {
			if now.After(ps.deadline) {
				r.log.Debugf("node: %s  request: %d  timed out", alias, requestID)
				r.deliver(requestID, alias, ps, nil, fault.ErrNodeTimeout)
			}
		}
	}
}

func (r *runner) forget(requestID uint64, alias string) {
	if sends, ok := r.pending[requestID]; ok {
		delete(sends, alias)
		if 0 == len(sends) {
			delete(r.pending, requestID)
		}
	}
	r.z.release(requestID)
}

func (r *runner) deliver(requestID uint64, alias string, ps pendingSend, payload []byte, err error) {
	r.forget(requestID, alias)

	now := time.Now()
	reply := networker.Reply{
		RequestID: requestID,
		Node:      alias,
		Payload:   payload,
		Err:       err,
		Elapsed:   now.Sub(ps.start),
		Received:  now,
	}
	select {
	case ps.replies <- reply:
	default:
		r.log.Warnf("node: %s  request: %d  reply channel full", alias, requestID)
	}
}

func (r *runner) shutdown() {
	for requestID, sends := range r.pending {
		for alias, ps := range sends {
			r.deliver(requestID, alias, ps, nil, fault.ErrNetworkerClosed)
		}
	}

	// anything queued after the stop
drain:
	for {
		select {
		case c := <-r.z.commands:
			switch c.kind {
			case cmdOpen:
				c.done <- fault.ErrNetworkerClosed
			case cmdSend:
				r.deliver(c.requestID, c.node, pendingSend{replies: c.replies, start: c.start}, nil, fault.ErrNetworkerClosed)
			}
		default:
			break drain
		}
	}

	for alias, client := range r.clients {
		r.poller.Remove(client.Socket())
		if err := client.Close(); nil != err {
			r.log.Warnf("node: %s  close error: %s", alias, err)
		}
	}
	r.poller.Remove(r.signal)
	r.signal.Close()
}
