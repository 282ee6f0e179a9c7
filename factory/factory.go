// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package factory - build pools from genesis transactions
//
// A Factory holds the transactions and settings; every Create call
// builds a fresh registry, networker and pool from them.
package factory

import (
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/genesis"
	"github.com/bitmark-inc/ledgerclient/message"
	"github.com/bitmark-inc/ledgerclient/networker"
	"github.com/bitmark-inc/ledgerclient/networker/zmqnet"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/registry"
)

// NetworkerConstructor - create the transport for a validator set
type NetworkerConstructor func(r *registry.Registry, config pool.Config) (networker.Networker, error)

// Factory - settings for creating pools
type Factory struct {
	transactions []string
	config       pool.Config
	normaliser   message.Normaliser
	newNetworker NetworkerConstructor
	clientKey    []byte
}

// FromGenesisFile - read the transactions from a genesis file
func FromGenesisFile(fileName string) (*Factory, error) {
	transactions, err := genesis.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return FromTransactions(transactions)
}

// FromTransactions - use already loaded transactions
func FromTransactions(transactions []string) (*Factory, error) {
	if 0 == len(transactions) {
		return nil, fault.ErrEmptyGenesis
	}
	f := &Factory{
		transactions: make([]string, len(transactions)),
		config:       pool.DefaultConfig(),
		normaliser:   message.Normalise,
	}
	copy(f.transactions, transactions)
	f.newNetworker = f.zmqNetworker
	return f, nil
}

// Transactions - copy of the genesis transactions
func (f *Factory) Transactions() []string {
	transactions := make([]string, len(f.transactions))
	copy(transactions, f.transactions)
	return transactions
}

// SetProtocolVersion - node protocol version for requests
func (f *Factory) SetProtocolVersion(version int) error {
	if !message.ValidProtocolVersion(version) {
		return fault.ErrInvalidProtocolVersion
	}
	f.config.ProtocolVersion = version
	return nil
}

// SetConfig - replace all pool settings
func (f *Factory) SetConfig(config pool.Config) error {
	if err := config.Validate(); nil != err {
		return err
	}
	config.Mode, _ = pool.ParseMode(string(config.Mode))
	f.config = config
	return nil
}

// Config - current pool settings
func (f *Factory) Config() pool.Config {
	return f.config
}

// SetNormaliser - policy for comparing replies, nil restores the default
func (f *Factory) SetNormaliser(normaliser message.Normaliser) {
	if nil == normaliser {
		normaliser = message.Normalise
	}
	f.normaliser = normaliser
}

// SetNetworker - transport constructor, nil restores ZeroMQ
func (f *Factory) SetNetworker(constructor NetworkerConstructor) {
	if nil == constructor {
		constructor = f.zmqNetworker
	}
	f.newNetworker = constructor
}

// SetClientKey - fixed CURVE private key for the ZeroMQ transport
func (f *Factory) SetClientKey(privateKey []byte) {
	f.clientKey = privateKey
}

func (f *Factory) zmqNetworker(r *registry.Registry, config pool.Config) (networker.Networker, error) {
	return zmqnet.New(r.Nodes(), zmqnet.Config{
		NodeTimeout:        config.NodeTimeout,
		MaxPendingRequests: config.MaxPendingRequests,
		PrivateKey:         f.clientKey,
	})
}

func (f *Factory) parameters(mode pool.Mode) (pool.Parameters, error) {
	config := f.config
	config.Mode = mode
	if err := config.Validate(); nil != err {
		return pool.Parameters{}, err
	}

	r, err := registry.New(f.transactions)
	if nil != err {
		return pool.Parameters{}, err
	}

	nw, err := f.newNetworker(r, config)
	if nil != err {
		return pool.Parameters{}, err
	}

	return pool.Parameters{
		Registry:   r,
		Networker:  nw,
		Config:     config,
		Normaliser: f.normaliser,
	}, nil
}

// CreateLocal - a pool for use by one goroutine
func (f *Factory) CreateLocal() (*pool.LocalPool, error) {
	p, err := f.parameters(pool.ModeLocal)
	if nil != err {
		return nil, err
	}
	lp, err := pool.NewLocal(p)
	if nil != err {
		p.Networker.Close()
		return nil, err
	}
	return lp, nil
}

// CreateShared - a pool that can be cloned across goroutines
func (f *Factory) CreateShared() (*pool.SharedPool, error) {
	p, err := f.parameters(pool.ModeShared)
	if nil != err {
		return nil, err
	}
	sp, err := pool.NewShared(p)
	if nil != err {
		p.Networker.Close()
		return nil, err
	}
	return sp, nil
}

// Create - a pool of the configured mode
func (f *Factory) Create() (pool.Pool, error) {
	if pool.ModeLocal == f.config.Mode {
		lp, err := f.CreateLocal()
		if nil != err {
			return nil, err
		}
		return lp, nil
	}
	sp, err := f.CreateShared()
	if nil != err {
		return nil, err
	}
	return sp, nil
}
