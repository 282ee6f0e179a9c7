// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"github.com/bitmark-inc/ledgerclient/counter"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/ledger"
	"github.com/bitmark-inc/ledgerclient/registry"
)

// LocalPool - a pool owned by a single goroutine
//
// not safe for concurrent use: queries must be made one at a time
// from the owning goroutine
type LocalPool struct {
	name   string
	d      *dispatcher
	ids    counter.Plain
	cursor counter.Plain
	closed bool
}

// NewLocal - create an exclusively owned pool
func NewLocal(p Parameters) (*LocalPool, error) {
	p.Config.Mode = ModeLocal
	lp := &LocalPool{
		ids: counter.Plain(initialRequestID()),
	}
	d, name, err := newDispatcher(p, &lp.ids, &lp.cursor)
	if nil != err {
		return nil, err
	}
	lp.d = d
	lp.name = name
	return lp, nil
}

// GetTxn - ask one node
func (lp *LocalPool) GetTxn(ledgerType ledger.Type, seqNo int64) (*Result, error) {
	if lp.closed {
		return nil, fault.ErrPoolClosed
	}
	return lp.d.getTxn(ledgerType, seqNo)
}

// GetTxnConsensus - ask until a quorum agrees
func (lp *LocalPool) GetTxnConsensus(ledgerType ledger.Type, seqNo int64) (*Result, error) {
	if lp.closed {
		return nil, fault.ErrPoolClosed
	}
	return lp.d.getTxnConsensus(ledgerType, seqNo)
}

// GetTxnFull - ask every node
func (lp *LocalPool) GetTxnFull(ledgerType ledger.Type, seqNo int64) (*FullResult, error) {
	if lp.closed {
		return nil, fault.ErrPoolClosed
	}
	return lp.d.getTxnFull(ledgerType, seqNo)
}

// Registry - the validator set
func (lp *LocalPool) Registry() *registry.Registry {
	return lp.d.registry
}

// Name - log name of the pool
func (lp *LocalPool) Name() string {
	return lp.name
}

// LastRequestID - the most recently issued request id
func (lp *LocalPool) LastRequestID() uint64 {
	return lp.ids.Uint64()
}

// Close - close the networker
func (lp *LocalPool) Close() error {
	if lp.closed {
		return nil
	}
	lp.closed = true
	lp.d.log.Info("closing")
	return lp.d.networker.Close()
}
