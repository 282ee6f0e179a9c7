// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerclient/factory"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/rpc"
	"github.com/bitmark-inc/ledgerclient/zmqutil"
)

// build a pool from the current genesis file
//
// nil newNetworker selects the ZeroMQ transport
func createPool(conf *Configuration, newNetworker factory.NetworkerConstructor) (pool.Pool, error) {
	config, err := conf.Pool.poolConfig()
	if nil != err {
		return nil, err
	}

	f, err := factory.FromGenesisFile(conf.GenesisFile)
	if nil != err {
		return nil, err
	}
	if err := f.SetConfig(config); nil != err {
		return nil, err
	}
	f.SetNetworker(newNetworker)

	if "" != conf.Pool.ClientKey {
		data, err := ioutil.ReadFile(conf.Pool.ClientKey)
		if nil != err {
			return nil, err
		}
		privateKey, err := zmqutil.ReadPrivateKey(string(data))
		if nil != err {
			return nil, err
		}
		f.SetClientKey(privateKey)
	}

	return f.Create()
}

// returns a function that swaps a freshly built pool into executor,
// on any error the current pool stays in service
func reloader(log *logger.L, conf *Configuration, executor rpc.Executor, newNetworker factory.NetworkerConstructor) func() error {
	return func() error {
		p, err := createPool(conf, newNetworker)
		if nil != err {
			return err
		}
		if err := executor.Replace(p); nil != err {
			p.Close()
			return err
		}
		log.Infof("replaced pool with: %s  nodes: %d", p.Name(), p.Registry().Count())
		return nil
	}
}
