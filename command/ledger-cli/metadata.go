// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerclient/factory"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/zmqutil"
)

const (
	logFile  = "ledger-cli.log"
	logSize  = 1024 * 1024
	logCount = 2
)

// settings shared by all commands
type metadata struct {
	genesis      string
	clientKey    string
	config       pool.Config
	verbose      bool
	newNetworker factory.NetworkerConstructor
	e            io.Writer
	w            io.Writer
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// a factory configured from the global flags
func (m *metadata) factory(mode pool.Mode) (*factory.Factory, error) {
	f, err := factory.FromGenesisFile(m.genesis)
	if nil != err {
		return nil, err
	}

	config := f.Config()
	config.ProtocolVersion = m.config.ProtocolVersion
	config.NodeTimeout = m.config.NodeTimeout
	config.RequestTimeout = m.config.RequestTimeout
	config.Mode = mode
	if err := f.SetConfig(config); nil != err {
		return nil, err
	}
	f.SetNetworker(m.newNetworker)

	if "" != m.clientKey {
		data, err := ioutil.ReadFile(m.clientKey)
		if nil != err {
			return nil, err
		}
		privateKey, err := zmqutil.ReadPrivateKey(string(data))
		if nil != err {
			return nil, err
		}
		f.SetClientKey(privateKey)
	}
	return f, nil
}

// the logger is set up once for the process
var logging struct {
	sync.Mutex
	started bool
}

// directory defaults to a ledger-cli directory below the system
// temporary directory
func startLogging(directory string, verbose bool) error {
	logging.Lock()
	defer logging.Unlock()

	if logging.started {
		return nil
	}

	if "" == directory {
		directory = filepath.Join(os.TempDir(), "ledger-cli")
	}
	if err := os.MkdirAll(directory, 0700); nil != err {
		return err
	}

	level := "critical"
	if verbose {
		level = "info"
	}
	err := logger.Initialise(logger.Configuration{
		Directory: directory,
		File:      logFile,
		Size:      logSize,
		Count:     logCount,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
	if nil != err {
		return err
	}
	logging.started = true
	return nil
}

func stopLogging() {
	logging.Lock()
	defer logging.Unlock()

	if logging.started {
		logger.Finalise()
		logging.started = false
	}
}
