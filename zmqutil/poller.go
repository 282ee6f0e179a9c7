// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"
)

// Poller - a zmq poller that allows sockets to be removed
type Poller struct {
	sync.Mutex
	sockets map[*zmq.Socket]zmq.State
	poller  *zmq.Poller
}

// NewPoller - create an empty poller
func NewPoller() *Poller {
	return &Poller{
		sockets: make(map[*zmq.Socket]zmq.State),
		poller:  zmq.NewPoller(),
	}
}

// Add - add a socket, ignoring duplicates
func (poller *Poller) Add(socket *zmq.Socket, events zmq.State) {

	poller.Lock()
	defer poller.Unlock()

	if _, ok := poller.sockets[socket]; ok {
		return
	}
	poller.sockets[socket] = events
	poller.poller.Add(socket, events)
}

// Remove - remove a socket, ignoring unknown sockets
func (poller *Poller) Remove(socket *zmq.Socket) {

	poller.Lock()
	defer poller.Unlock()

	if _, ok := poller.sockets[socket]; !ok {
		return
	}
	delete(poller.sockets, socket)

	// zmq poller has no removal so rebuild it
	p := zmq.NewPoller()
	for s, events := range poller.sockets {
		p.Add(s, events)
	}
	poller.poller = p
}

// Len - number of sockets being polled
func (poller *Poller) Len() int {
	poller.Lock()
	defer poller.Unlock()
	return len(poller.sockets)
}

// Poll - wait for events on any socket
func (poller *Poller) Poll(timeout time.Duration) ([]zmq.Polled, error) {
	poller.Lock()
	p := poller.poller
	poller.Unlock()
	return p.Poll(timeout)
}
