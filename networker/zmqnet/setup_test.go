// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqnet_test

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerclient/counter"
	"github.com/bitmark-inc/ledgerclient/fixtures"
	"github.com/bitmark-inc/ledgerclient/genesis"
	"github.com/bitmark-inc/ledgerclient/zmqutil"
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	rc := m.Run()

	logger.Finalise()
	removeFiles()
	os.Exit(rc)
}

func removeFiles() {
	os.RemoveAll(testingDirName)
}

// how a fake validator answers
type mode int

const (
	modeReply mode = iota
	modeAckThenReply
	modeNack
	modeSilent
)

// a validator client port speaking just enough of the protocol
type validator struct {
	node     genesis.Node
	socket   *zmq.Socket
	mode     mode
	requests counter.Counter
	stop     chan struct{}
	done     chan struct{}
}

func startValidator(t *testing.T, i int, m mode) *validator {
	verkey, signingKey := fixtures.NodeKeys(i)

	private, err := zmqutil.ServerPrivateFromSigningKey(signingKey)
	require.Nil(t, err, "server key error")

	socket, err := zmqutil.NewServerSocket(private, "tcp://127.0.0.1:*", false)
	require.Nil(t, err, "server socket error")

	address, err := socket.GetLastEndpoint()
	require.Nil(t, err, "endpoint error")

	v := &validator{
		node: genesis.Node{
			Alias:    fixtures.Alias(i),
			Address:  address,
			Verkey:   verkey,
			Services: []string{genesis.ServiceValidator},
		},
		socket: socket,
		mode:   m,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go v.serve()
	return v
}

func (v *validator) serve() {
	defer close(v.done)
	defer v.socket.Close()

	poller := zmqutil.NewPoller()
	poller.Add(v.socket, zmq.POLLIN)

	for {
		select {
		case <-v.stop:
			return
		default:
		}

		polled, err := poller.Poll(10 * time.Millisecond)
		if nil != err || 0 == len(polled) {
			continue
		}
		parts, err := v.socket.RecvMessageBytes(0)
		if nil != err || len(parts) < 2 {
			continue
		}
		v.requests.Increment()

		var request struct {
			RequestID uint64 `json:"reqId"`
		}
		_ = json.Unmarshal(parts[len(parts)-1], &request)
		id := request.RequestID

		switch v.mode {
		case modeReply:
			v.socket.SendMessage(parts[0], reply(id))
		case modeAckThenReply:
			v.socket.SendMessage(parts[0], fmt.Sprintf(`{"op":"REQACK","reqId":%d}`, id))
			v.socket.SendMessage(parts[0], reply(id))
		case modeNack:
			v.socket.SendMessage(parts[0], fmt.Sprintf(`{"op":"REQNACK","reqId":%d,"reason":"bad request"}`, id))
		case modeSilent:
		}
	}
}

func (v *validator) Stop() {
	close(v.stop)
	<-v.done
}

func reply(id uint64) string {
	return fmt.Sprintf(`{"op":"REPLY","result":{"type":"3","reqId":%d,"seqNo":1,"data":{"dest":"abc"}}}`, id)
}
