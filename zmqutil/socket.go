// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ledgerclient/fault"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// NewSignalPair - return a pair of connected push/pull sockets
// for waking a poll loop
func NewSignalPair(signal string) (*zmq.Socket, *zmq.Socket, error) {

	// send half of signalling channel
	push, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return nil, nil, err
	}
	push.SetLinger(0)
	err = push.Bind(signal)
	if nil != err {
		push.Close()
		return nil, nil, err
	}

	// receive half of signalling channel
	pull, err := zmq.NewSocket(zmq.PULL)
	if nil != err {
		push.Close()
		return nil, nil, err
	}
	pull.SetLinger(0)
	err = pull.Connect(signal)
	if nil != err {
		push.Close()
		pull.Close()
		return nil, nil, err
	}

	return push, pull, nil
}

// NewServerSocket - create a CURVE secured ROUTER bound to an
// address, as used by a validator's client port
func NewServerSocket(privateKey []byte, address string, v6 bool) (*zmq.Socket, error) {

	if len(privateKey) != privateKeySize {
		return nil, fault.ErrInvalidPrivateKey
	}

	socket, err := zmq.NewSocket(zmq.ROUTER)
	if nil != err {
		return nil, err
	}

	err = socket.SetCurveServer(1)
	if nil != err {
		goto failure
	}
	err = socket.SetCurveSecretkey(string(privateKey))
	if nil != err {
		goto failure
	}
	err = socket.SetLinger(0)
	if nil != err {
		goto failure
	}
	err = socket.SetIpv6(v6)
	if nil != err {
		goto failure
	}
	err = socket.Bind(address)
	if nil != err {
		goto failure
	}
	return socket, nil

failure:
	socket.Close()
	return nil, err
}
