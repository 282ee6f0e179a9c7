// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/util"
)

func TestGetConfigurationDefaults(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	fileName := writeFile(t, dir, "ledgerd.conf", `return { data_directory = "." }`)

	c, err := getConfiguration(fileName, nil)
	require.Nil(t, err, "configuration error")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(c.DataDirectory))
	assert.Equal(t, filepath.Join(dir, defaultGenesisFile), c.GenesisFile)
	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), c.Logging.Directory)
	assert.True(t, util.EnsureFileExists(c.Logging.Directory), "log directory not created")
	assert.Equal(t, "", c.PidFile)
	assert.Equal(t, "", c.Pool.ClientKey)
	assert.Equal(t, defaultListen, c.HTTP.Listen)

	config, err := c.Pool.poolConfig()
	require.Nil(t, err, "pool config")
	assert.Equal(t, pool.DefaultConfig(), config)
}

func TestGetConfiguration(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	fileName := writeFile(t, dir, "ledgerd.conf", `
return {
    data_directory = ".",
    pidfile = "ledgerd.pid",
    genesis_file = arg.genesis,
    watch_genesis = true,
    pool = {
        mode = "local",
        protocol_version = 1,
        node_timeout = 5,
        request_timeout = 15,
        maximum_pending_requests = 10,
        client_key = "keys/client.private",
    },
    http = {
        listen = "0.0.0.0:8080",
        request_rate = 50,
        request_burst = 100,
    },
    logging = {
        size = 4096,
        levels = {
            rpc = "debug",
        },
    },
}
`)

	c, err := getConfiguration(fileName, map[string]string{"genesis": "/etc/ledgerd/sandbox.txn"})
	require.Nil(t, err, "configuration error")

	assert.Equal(t, filepath.FromSlash("/etc/ledgerd/sandbox.txn"), c.GenesisFile)
	assert.Equal(t, filepath.Join(dir, "ledgerd.pid"), c.PidFile)
	assert.Equal(t, filepath.Join(dir, "keys", "client.private"), c.Pool.ClientKey)
	assert.True(t, c.WatchGenesis)
	assert.Equal(t, "0.0.0.0:8080", c.HTTP.Listen)
	assert.Equal(t, float64(50), c.HTTP.RequestRate)
	assert.Equal(t, 100, c.HTTP.RequestBurst)
	assert.Equal(t, uint64(defaultMaximumConnections), c.HTTP.MaximumConnections, "default lost")
	assert.Equal(t, 4096, c.Logging.Size)
	assert.Equal(t, defaultLogCount, c.Logging.Count, "default lost")
	assert.Equal(t, "debug", c.Logging.Levels["rpc"])

	config, err := c.Pool.poolConfig()
	require.Nil(t, err, "pool config")
	assert.Equal(t, pool.Config{
		ProtocolVersion:    1,
		NodeTimeout:        5 * time.Second,
		RequestTimeout:     15 * time.Second,
		MaxPendingRequests: 10,
		Mode:               pool.ModeLocal,
	}, config)
}

func TestGetConfigurationErrors(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	testData := []struct {
		name string
		text string
	}{
		{"no-data-directory.conf", `return {}`},
		{"missing-data-directory.conf", `return { data_directory = "` + filepath.ToSlash(filepath.Join(dir, "absent")) + `" }`},
		{"bad-mode.conf", `return { data_directory = ".", pool = { mode = "exclusive" } }`},
		{"bad-timeouts.conf", `return { data_directory = ".", pool = { node_timeout = 30, request_timeout = 10 } }`},
		{"log-path.conf", `return { data_directory = ".", logging = { file = "log/ledgerd.log" } }`},
	}

	for i, item := range testData {
		fileName := writeFile(t, dir, item.name, item.text)
		_, err := getConfiguration(fileName, nil)
		assert.NotNil(t, err, "%d: %s", i, item.name)
	}
}

func TestPoolConfigMode(t *testing.T) {
	c := PoolConfiguration{
		Mode:                   "Shared",
		ProtocolVersion:        2,
		NodeTimeout:            1,
		RequestTimeout:         1,
		MaximumPendingRequests: 1,
	}
	config, err := c.poolConfig()
	require.Nil(t, err)
	assert.Equal(t, pool.ModeShared, config.Mode)

	c.Mode = "exclusive"
	_, err = c.poolConfig()
	assert.Equal(t, fault.ErrUnsupportedPoolMode, err)
}
