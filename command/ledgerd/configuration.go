// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerclient/configuration"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/rpc"
	"github.com/bitmark-inc/ledgerclient/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file
	defaultGenesisFile   = "genesis.txn"

	defaultListen             = "127.0.0.1:3000"
	defaultMaximumConnections = 100

	defaultLogDirectory = "log"
	defaultLogFile      = "ledgerd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// PoolConfiguration - pool section, times are in seconds
type PoolConfiguration struct {
	Mode                   string `gluamapper:"mode" json:"mode"`
	ProtocolVersion        int    `gluamapper:"protocol_version" json:"protocol_version"`
	NodeTimeout            int    `gluamapper:"node_timeout" json:"node_timeout"`
	RequestTimeout         int    `gluamapper:"request_timeout" json:"request_timeout"`
	MaximumPendingRequests int    `gluamapper:"maximum_pending_requests" json:"maximum_pending_requests"`
	ClientKey              string `gluamapper:"client_key" json:"client_key"` // optional private key file
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`
	GenesisFile   string `gluamapper:"genesis_file" json:"genesis_file"`
	WatchGenesis  bool   `gluamapper:"watch_genesis" json:"watch_genesis"`

	Pool    PoolConfiguration    `gluamapper:"pool" json:"pool"`
	HTTP    rpc.Configuration    `gluamapper:"http" json:"http"`
	Logging logger.Configuration `gluamapper:"logging" json:"logging"`
}

// poolConfig - the pool settings as a validated pool.Config
func (c *PoolConfiguration) poolConfig() (pool.Config, error) {
	mode, err := pool.ParseMode(c.Mode)
	if nil != err {
		return pool.Config{}, err
	}
	config := pool.Config{
		ProtocolVersion:    c.ProtocolVersion,
		NodeTimeout:        time.Duration(c.NodeTimeout) * time.Second,
		RequestTimeout:     time.Duration(c.RequestTimeout) * time.Second,
		MaxPendingRequests: c.MaximumPendingRequests,
		Mode:               mode,
	}
	if err := config.Validate(); nil != err {
		return pool.Config{}, err
	}
	return config, nil
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	defaults := pool.DefaultConfig()

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		GenesisFile:   defaultGenesisFile,

		Pool: PoolConfiguration{
			Mode:                   string(defaults.Mode),
			ProtocolVersion:        defaults.ProtocolVersion,
			NodeTimeout:            int(defaults.NodeTimeout / time.Second),
			RequestTimeout:         int(defaults.RequestTimeout / time.Second),
			MaximumPendingRequests: defaults.MaxPendingRequests,
		},

		HTTP: rpc.Configuration{
			Listen:             defaultListen,
			MaximumConnections: defaultMaximumConnections,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	if _, err := options.Pool.poolConfig(); nil != err {
		return nil, fmt.Errorf("pool: %w", err)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.GenesisFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Pool.ClientKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// the log file must be a plain name inside the log directory
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	return options, nil
}
