// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"testing"
	"time"

	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerclient/fault"
)

func setupTestClient(t *testing.T) *Client {
	publicKey, privateKey, err := NewKeyPair()
	require.Nil(t, err, "keypair error")
	client, err := NewClient(privateKey, publicKey)
	require.Nil(t, err, "client error")
	return client
}

func TestNewClientBadKeys(t *testing.T) {
	_, err := NewClient(make([]byte, 31), make([]byte, 32))
	assert.Equal(t, fault.ErrInvalidPrivateKey, err, "short private key accepted")
	_, err = NewClient(make([]byte, 32), make([]byte, 33))
	assert.Equal(t, fault.ErrInvalidPublicKey, err, "long public key accepted")
}

func TestSendNotConnected(t *testing.T) {
	client := setupTestClient(t)
	defer client.Close()

	assert.False(t, client.IsConnected(), "connected before connect")
	assert.Equal(t, fault.ErrNotConnected, client.Send([]byte("x")), "send without connection")
	_, err := client.Receive(zmq.DONTWAIT)
	assert.Equal(t, fault.ErrNotConnected, err, "receive without connection")
}

// a DEALER client and a ROUTER server exchange a message over CURVE
func TestClientServerRoundTrip(t *testing.T) {
	serverPublic, serverPrivate, err := NewKeyPair()
	require.Nil(t, err, "server keypair error")

	server, err := NewServerSocket(serverPrivate, "tcp://127.0.0.1:*", false)
	require.Nil(t, err, "server socket error")
	defer server.Close()

	address, err := server.GetLastEndpoint()
	require.Nil(t, err, "endpoint error")

	client := setupTestClient(t)
	defer client.Close()

	err = client.Connect(address, false, serverPublic)
	require.Nil(t, err, "connect error")
	assert.True(t, client.IsConnected(), "not connected")
	assert.Equal(t, address, client.String(), "wrong address")

	err = client.Send([]byte(`{"reqId":1}`))
	require.Nil(t, err, "send error")

	poller := NewPoller()
	poller.Add(server, zmq.POLLIN)
	polled, err := poller.Poll(5 * time.Second)
	require.Nil(t, err, "server poll error")
	require.Equal(t, 1, len(polled), "server not readable")

	parts, err := server.RecvMessageBytes(0)
	require.Nil(t, err, "server receive error")
	require.Equal(t, 2, len(parts), "wrong part count")
	assert.Equal(t, `{"reqId":1}`, string(parts[1]), "wrong request")

	_, err = server.SendMessage(parts[0], `{"op":"REPLY","result":{"reqId":1}}`)
	require.Nil(t, err, "server send error")

	clientPoller := NewPoller()
	client.BeginPolling(clientPoller, zmq.POLLIN)
	assert.Equal(t, 1, clientPoller.Len(), "socket not added")
	polled, err = clientPoller.Poll(5 * time.Second)
	require.Nil(t, err, "client poll error")
	require.Equal(t, 1, len(polled), "client not readable")

	reply, err := client.Receive(0)
	require.Nil(t, err, "client receive error")
	require.Equal(t, 1, len(reply), "wrong reply part count")
	assert.Equal(t, `{"op":"REPLY","result":{"reqId":1}}`, string(reply[0]), "wrong reply")

	clientPoller.Remove(client.Socket())
	clientPoller.Remove(client.Socket())
	assert.Equal(t, 0, clientPoller.Len(), "socket not removed")
}
