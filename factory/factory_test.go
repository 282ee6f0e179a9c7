// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package factory_test

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerclient/factory"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/fixtures"
	"github.com/bitmark-inc/ledgerclient/ledger"
	"github.com/bitmark-inc/ledgerclient/message"
	"github.com/bitmark-inc/ledgerclient/networker"
	"github.com/bitmark-inc/ledgerclient/networker/simnet"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/registry"
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

func writeGenesis(t *testing.T, name string, text string) string {
	fileName := filepath.Join(testingDirName, name)
	err := ioutil.WriteFile(fileName, []byte(text), 0600)
	require.Nil(t, err, "write genesis error")
	return fileName
}

// every node answers with the same transaction
func simulated(networks *[]*simnet.Network) factory.NetworkerConstructor {
	return func(r *registry.Registry, config pool.Config) (networker.Networker, error) {
		net := simnet.New(r.Aliases(), config.NodeTimeout, config.MaxPendingRequests)
		for _, alias := range r.Aliases() {
			net.SetBehaviour(alias, simnet.Behaviour{Respond: simnet.GetTxnReply(`{"dest":"abc"}`)})
		}
		*networks = append(*networks, net)
		return net, nil
	}
}

func TestFromGenesisFile(t *testing.T) {
	fileName := writeGenesis(t, "pool_transactions_genesis", "\n"+fixtures.GenesisText(4)+"\n\n")

	f, err := factory.FromGenesisFile(fileName)
	require.Nil(t, err, "factory error")
	assert.Equal(t, fixtures.Transactions(4), f.Transactions(), "wrong transactions")

	var networks []*simnet.Network
	f.SetNetworker(simulated(&networks))

	lp, err := f.CreateLocal()
	require.Nil(t, err, "create local error")
	defer lp.Close()
	assert.Equal(t, 4, lp.Registry().Count(), "wrong node count")

	r, err := lp.GetTxnConsensus(ledger.DOMAIN, 1)
	require.Nil(t, err, "consensus error")
	assert.Equal(t, 2, r.Votes, "wrong votes")

	sp, err := f.CreateShared()
	require.Nil(t, err, "create shared error")
	defer sp.Close()

	full, err := sp.GetTxnFull(ledger.POOL, 1)
	require.Nil(t, err, "full error")
	assert.Equal(t, 4, len(full.Replies), "wrong entry count")

	assert.Equal(t, 2, len(networks), "each pool should own a networker")
}

// one blank line and one transaction is too few validators
func TestGenesisScenarioD(t *testing.T) {
	fileName := writeGenesis(t, "short_genesis", "\n"+fixtures.Transaction(1)+"\n")

	f, err := factory.FromGenesisFile(fileName)
	require.Nil(t, err, "factory error")
	assert.Equal(t, 1, len(f.Transactions()), "blank line not skipped")

	var networks []*simnet.Network
	f.SetNetworker(simulated(&networks))

	_, err = f.CreateShared()
	assert.True(t, errors.Is(err, fault.ErrInsufficientValidators), "wrong error: %v", err)
	assert.True(t, fault.IsErrInvalid(err), "not an invalid structure error")
	assert.Equal(t, 0, len(networks), "networker created for invalid genesis")
}

func TestFromGenesisFileErrors(t *testing.T) {
	_, err := factory.FromGenesisFile(filepath.Join(testingDirName, "does-not-exist"))
	assert.True(t, fault.IsErrIO(err), "missing file: wrong error: %v", err)

	fileName := writeGenesis(t, "empty_genesis", "\n\n")
	_, err = factory.FromGenesisFile(fileName)
	assert.True(t, errors.Is(err, fault.ErrEmptyGenesis), "empty file: wrong error: %v", err)

	fileName = writeGenesis(t, "bad_genesis", fixtures.Transaction(1)+"\nnot json\n")
	_, err = factory.FromGenesisFile(fileName)
	assert.True(t, errors.Is(err, fault.ErrMalformedGenesis), "bad line: wrong error: %v", err)

	_, err = factory.FromTransactions(nil)
	assert.Equal(t, fault.ErrEmptyGenesis, err, "no transactions accepted")
}

func TestSettings(t *testing.T) {
	f, err := factory.FromTransactions(fixtures.Transactions(4))
	require.Nil(t, err, "factory error")

	assert.Equal(t, fault.ErrInvalidProtocolVersion, f.SetProtocolVersion(5), "bad version accepted")
	assert.Nil(t, f.SetProtocolVersion(message.ProtocolVersion1), "version 1 rejected")
	assert.Equal(t, message.ProtocolVersion1, f.Config().ProtocolVersion, "version not set")

	config := pool.DefaultConfig()
	config.RequestTimeout = time.Second
	assert.Equal(t, fault.ErrInvalidNodeTimeout, f.SetConfig(config), "node timeout above deadline accepted")

	config.NodeTimeout = 500 * time.Millisecond
	config.Mode = "Local"
	require.Nil(t, f.SetConfig(config), "config rejected")

	var networks []*simnet.Network
	f.SetNetworker(simulated(&networks))

	// byte comparison of replies
	f.SetNormaliser(message.Exact)

	p, err := f.Create()
	require.Nil(t, err, "create error")
	defer p.Close()
	_, ok := p.(*pool.LocalPool)
	assert.True(t, ok, "configured mode ignored")

	require.Equal(t, 1, len(networks), "networker not created")
	_, err = p.GetTxn(ledger.DOMAIN, 3)
	assert.Nil(t, err, "single error")
}
