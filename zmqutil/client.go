// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"crypto/rand"
	"syscall"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// Client - a CURVE secured DEALER connection to one node
type Client struct {
	publicKey       []byte
	privateKey      []byte
	serverPublicKey []byte
	address         string
	v6              bool
	socket          *zmq.Socket
}

const (
	publicKeySize  = 32
	privateKeySize = 32
	identifierSize = 32
)

// NewClient - create an unconnected client using the given keypair
func NewClient(privateKey []byte, publicKey []byte) (*Client, error) {

	if len(publicKey) != publicKeySize {
		return nil, fault.ErrInvalidPublicKey
	}
	if len(privateKey) != privateKeySize {
		return nil, fault.ErrInvalidPrivateKey
	}

	client := &Client{
		publicKey:       make([]byte, publicKeySize),
		privateKey:      make([]byte, privateKeySize),
		serverPublicKey: make([]byte, publicKeySize),
	}
	copy(client.privateKey, privateKey)
	copy(client.publicKey, publicKey)
	return client, nil
}

// create a socket and connect to the server with its key
func (client *Client) openSocket() error {

	socket, err := zmq.NewSocket(zmq.DEALER)
	if nil != err {
		return err
	}

	// create a secure random identifier
	randomIdBytes := make([]byte, identifierSize)
	_, err = rand.Read(randomIdBytes)
	if nil != err {
		socket.Close()
		return err
	}

	// set up as client
	err = socket.SetCurveServer(0)
	if nil != err {
		goto failure
	}
	err = socket.SetCurvePublickey(string(client.publicKey))
	if nil != err {
		goto failure
	}
	err = socket.SetCurveSecretkey(string(client.privateKey))
	if nil != err {
		goto failure
	}
	err = socket.SetIdentity(string(randomIdBytes))
	if nil != err {
		goto failure
	}

	// destination identity is its public key
	err = socket.SetCurveServerkey(string(client.serverPublicKey))
	if nil != err {
		goto failure
	}

	err = socket.SetLinger(0)
	if nil != err {
		goto failure
	}

	// this need zmq 4.2
	err = socket.SetHeartbeatIvl(heartbeatInterval)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTimeout(heartbeatTimeout)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTtl(heartbeatTTL)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}

	// set IPv6 state before connect
	err = socket.SetIpv6(client.v6)
	if nil != err {
		goto failure
	}

	err = socket.Connect(client.address)
	if nil != err {
		goto failure
	}

	client.socket = socket
	return nil

failure:
	socket.Close()
	return err
}

func (client *Client) closeSocket() error {

	if nil == client.socket {
		return nil
	}

	if "" != client.address {
		client.socket.Disconnect(client.address)
	}

	err := client.socket.Close()
	client.socket = nil
	return err
}

// Connect - disconnect any old address and connect to a node
//
// address is a zmq endpoint e.g. "tcp://127.0.0.1:9702"
func (client *Client) Connect(address string, v6 bool, serverPublicKey []byte) error {

	if len(serverPublicKey) != publicKeySize {
		return fault.ErrInvalidPublicKey
	}

	err := client.closeSocket()
	if nil != err {
		return err
	}

	copy(client.serverPublicKey, serverPublicKey)
	client.address = address
	client.v6 = v6

	err = client.openSocket()
	if nil != err {
		client.address = ""
	}
	return err
}

// IsConnected - check if connected to a node
func (client *Client) IsConnected() bool {
	return "" != client.address && nil != client.socket
}

// Close - disconnect and close
func (client *Client) Close() error {
	err := client.closeSocket()
	client.address = ""
	return err
}

// Send - queue a multipart message without blocking
//
// a full outgoing queue is reported as fault.ErrSendQueueFull
func (client *Client) Send(items ...interface{}) error {
	if !client.IsConnected() {
		return fault.ErrNotConnected
	}

	last := len(items) - 1
	for i, item := range items {

		flag := zmq.SNDMORE | zmq.DONTWAIT
		if i == last {
			flag = zmq.DONTWAIT
		}
		var err error
		switch it := item.(type) {
		case string:
			_, err = client.socket.Send(it, flag)
		case []byte:
			_, err = client.socket.SendBytes(it, flag)
		}
		if zmq.Errno(syscall.EAGAIN) == err {
			return fault.ErrSendQueueFull
		}
		if nil != err {
			return err
		}
	}
	return nil
}

// Receive - read one multipart message
func (client *Client) Receive(flags zmq.Flag) ([][]byte, error) {
	if !client.IsConnected() {
		return nil, fault.ErrNotConnected
	}
	return client.socket.RecvMessageBytes(flags)
}

// BeginPolling - add the socket to a poller
func (client *Client) BeginPolling(poller *Poller, events zmq.State) *zmq.Socket {
	if nil != client.socket {
		poller.Add(client.socket, events)
	}
	return client.socket
}

// Socket - the underlying socket, nil if not connected
func (client *Client) Socket() *zmq.Socket {
	return client.socket
}

// String - the connected address
func (client Client) String() string {
	return client.address
}
