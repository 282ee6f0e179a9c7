// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerclient/fixtures"
	"github.com/bitmark-inc/ledgerclient/networker/simnet"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/rpc"
)

// value of result.result.data.value in a reply body
func valueOf(t *testing.T, body map[string]interface{}) string {
	envelope, ok := body["result"].(map[string]interface{})
	require.True(t, ok, "result is not an object: %v", body["result"])
	result, ok := envelope["result"].(map[string]interface{})
	require.True(t, ok, "missing node result: %v", envelope)
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "missing data: %v", result)
	return data["value"].(string)
}

func TestSingle(t *testing.T) {
	for _, mode := range []pool.Mode{pool.ModeLocal, pool.ModeShared} {
		server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), mode), &rpc.Configuration{})

		code, body, header := get(t, server.URL+"/?ledger=domain&seq_no=5")
		assert.Equal(t, http.StatusOK, code, "%s: status", mode)
		assert.Equal(t, "Node1", body["node"], "%s: node", mode)
		assert.Equal(t, "domain", body["ledger"], "%s: ledger", mode)
		assert.Equal(t, float64(5), body["seqNo"], "%s: seqNo", mode)
		assert.Equal(t, float64(1), body["votes"], "%s: votes", mode)
		assert.NotZero(t, body["requestId"], "%s: requestId", mode)
		assert.Equal(t, "P", valueOf(t, body), "%s: value", mode)
		assert.Contains(t, body["timing"], "Node1", "%s: timing", mode)

		assert.Equal(t, "application/json", header.Get("Content-Type"), "%s: content type", mode)
		assert.NotEmpty(t, header.Get("X-Request-Id"), "%s: request id header", mode)

		stop()
	}
}

func TestRequestIDIsKept(t *testing.T) {
	server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	request, err := http.NewRequest(http.MethodGet, server.URL+"/nodes", nil)
	require.Nil(t, err)
	request.Header.Set("X-Request-Id", "abc-123")

	response, err := http.DefaultClient.Do(request)
	require.Nil(t, err)
	response.Body.Close()
	assert.Equal(t, "abc-123", response.Header.Get("X-Request-Id"))
}

// without seq_no each request takes the next number from 1
func TestDefaultSequenceNumber(t *testing.T) {
	server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	_, body, _ := get(t, server.URL+"/")
	assert.Equal(t, float64(1), body["seqNo"])
	_, body, _ = get(t, server.URL+"/consensus")
	assert.Equal(t, float64(2), body["seqNo"])
	_, body, _ = get(t, server.URL+"/?seq_no=40")
	assert.Equal(t, float64(40), body["seqNo"])
	_, body, _ = get(t, server.URL+"/full")
	assert.Equal(t, float64(3), body["seqNo"])
}

func TestConsensus(t *testing.T) {
	server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), pool.ModeShared), &rpc.Configuration{})
	defer stop()

	code, body, _ := get(t, server.URL+"/consensus?ledger=pool&seq_no=1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["votes"])
	assert.Equal(t, "pool", body["ledger"])
	assert.Equal(t, "P", valueOf(t, body))
}

func TestNoConsensus(t *testing.T) {
	net := simnet.New(fixtures.Aliases(4), time.Hour, 0)
	net.SetBehaviour("Node1", answer("P"))
	net.SetBehaviour("Node2", answer("Q"))

	server, stop := newServer(t, newPool(t, 4, net, pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	code, body, _ := get(t, server.URL+"/consensus?seq_no=1")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, float64(http.StatusBadGateway), body["code"])
	assert.Equal(t, "no consensus", body["error"])
	assert.NotZero(t, body["requestId"])

	tally, ok := body["tally"].(map[string]interface{})
	require.True(t, ok, "missing tally: %v", body)
	assert.Equal(t, 2, len(tally), "distinct replies")

	failures, ok := body["failures"].(map[string]interface{})
	require.True(t, ok, "missing failures: %v", body)
	assert.Contains(t, failures, "Node3")
	assert.Contains(t, failures, "Node4")
}

func TestRequestDeadline(t *testing.T) {
	net := simnet.New(fixtures.Aliases(4), time.Hour, 0)
	for _, alias := range fixtures.Aliases(4) {
		net.SetBehaviour(alias, simnet.Behaviour{Silent: true})
	}

	server, stop := newServer(t, newPool(t, 4, net, pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	code, body, _ := get(t, server.URL+"/consensus?seq_no=1")
	assert.Equal(t, http.StatusGatewayTimeout, code)
	assert.Equal(t, "request deadline exceeded", body["error"])
}

func TestSingleNodeFailure(t *testing.T) {
	net := newNetwork(4, "P")
	net.SetBehaviour("Node1", simnet.Unreachable)

	server, stop := newServer(t, newPool(t, 4, net, pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	code, body, _ := get(t, server.URL+"/")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "node unreachable", body["error"])
	assert.Contains(t, body["failures"], "Node1")
}

func TestFull(t *testing.T) {
	net := newNetwork(4, "P")
	net.SetBehaviour("Node3", simnet.Unreachable)

	server, stop := newServer(t, newPool(t, 4, net, pool.ModeShared), &rpc.Configuration{})
	defer stop()

	code, body, _ := get(t, server.URL+"/full?seq_no=2")
	require.Equal(t, http.StatusOK, code)

	replies, ok := body["replies"].(map[string]interface{})
	require.True(t, ok, "missing replies: %v", body)
	require.Equal(t, 4, len(replies), "one entry per node")

	for _, alias := range fixtures.Aliases(4) {
		entry := replies[alias].(map[string]interface{})
		if "Node3" == alias {
			assert.Equal(t, "node unreachable", entry["error"], alias)
			assert.NotContains(t, entry, "result", alias)
			continue
		}
		assert.NotContains(t, entry, "error", alias)
		assert.Contains(t, entry, "result", alias)
	}
}

func TestNodes(t *testing.T) {
	server, stop := newServer(t, newPool(t, 7, newNetwork(7, "P"), pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	code, body, _ := get(t, server.URL+"/nodes")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(7), body["n"])
	assert.Equal(t, float64(2), body["f"])
	assert.Equal(t, float64(3), body["q"])

	nodes := body["nodes"].([]interface{})
	require.Equal(t, 7, len(nodes))
	first := nodes[0].(map[string]interface{})
	assert.Equal(t, "Node1", first["alias"])
	assert.True(t, strings.HasPrefix(first["address"].(string), "tcp://127.0.0.1:"), "address: %v", first["address"])
}

func TestBadParameters(t *testing.T) {
	server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	testData := []struct {
		path  string
		error string
	}{
		{"/?seq_no=abc", "invalid sequence number"},
		{"/consensus?seq_no=0", "invalid sequence number"},
		{"/full?seq_no=-3", "invalid sequence number"},
		{"/?ledger=bogus", "invalid ledger type"},
	}

	for i, item := range testData {
		code, body, _ := get(t, server.URL+item.path)
		assert.Equal(t, http.StatusBadRequest, code, "%d: %s", i, item.path)
		assert.Equal(t, item.error, body["error"], "%d: %s", i, item.path)
	}
}

func TestUnroutedAndMethods(t *testing.T) {
	server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), pool.ModeLocal), &rpc.Configuration{})
	defer stop()

	code, body, _ := get(t, server.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", body["error"])

	for _, path := range []string{"/", "/consensus", "/missing"} {
		response, err := http.Post(server.URL+path, "application/json", strings.NewReader("{}"))
		require.Nil(t, err, path)
		response.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, response.StatusCode, path)
	}
}

func TestRateLimit(t *testing.T) {
	configuration := &rpc.Configuration{
		RequestRate:  0.001,
		RequestBurst: 1,
		MaximumDelay: 1,
	}
	server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), pool.ModeLocal), configuration)
	defer stop()

	code, _, _ := get(t, server.URL+"/nodes")
	assert.Equal(t, http.StatusOK, code, "first request")

	code, body, _ := get(t, server.URL+"/nodes")
	assert.Equal(t, http.StatusTooManyRequests, code, "second request")
	assert.Equal(t, "rate limiting", body["error"])
}

func TestInvalidRateConfiguration(t *testing.T) {
	executor, err := rpc.NewExecutor(newPool(t, 4, newNetwork(4, "P"), pool.ModeLocal))
	require.Nil(t, err)

	_, err = rpc.NewHandler(nil, executor, &rpc.Configuration{RequestRate: -1})
	assert.NotNil(t, err)
}

// shared mode serves requests in parallel from clones of one pool
func TestSharedParallel(t *testing.T) {
	server, stop := newServer(t, newPool(t, 4, newNetwork(4, "P"), pool.ModeShared), &rpc.Configuration{})
	defer stop()

	const requests = 20
	codes := make(chan int, requests)
	wg := sync.WaitGroup{}
	for i := 0; i < requests; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			response, err := http.Get(server.URL + "/consensus")
			if nil != err {
				codes <- 0
				return
			}
			response.Body.Close()
			codes <- response.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
}
