// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"sync/atomic"

	"github.com/bitmark-inc/ledgerclient/counter"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/ledger"
	"github.com/bitmark-inc/ledgerclient/registry"
)

// state common to all clones
//
// counters first to keep them 64 bit aligned
type sharedState struct {
	ids    counter.Counter
	cursor counter.Counter
	refs   counter.Counter
	name   string
	d      *dispatcher
}

// SharedPool - a handle to a pool usable from many goroutines
//
// each goroutine that keeps the pool should hold its own clone and
// close it when done
type SharedPool struct {
	s      *sharedState
	closed int32
}

// NewShared - create a pool with one handle
func NewShared(p Parameters) (*SharedPool, error) {
	p.Config.Mode = ModeShared
	s := &sharedState{
		ids: counter.Counter(initialRequestID()),
	}
	d, name, err := newDispatcher(p, &s.ids, &s.cursor)
	if nil != err {
		return nil, err
	}
	s.d = d
	s.name = name
	s.refs.Increment()
	return &SharedPool{s: s}, nil
}

// Clone - another handle to the same pool
func (sp *SharedPool) Clone() (*SharedPool, error) {
	if sp.isClosed() {
		return nil, fault.ErrPoolClosed
	}
	sp.s.refs.Increment()
	return &SharedPool{s: sp.s}, nil
}

func (sp *SharedPool) isClosed() bool {
	return 0 != atomic.LoadInt32(&sp.closed)
}

// GetTxn - ask one node
func (sp *SharedPool) GetTxn(ledgerType ledger.Type, seqNo int64) (*Result, error) {
	if sp.isClosed() {
		return nil, fault.ErrPoolClosed
	}
	return sp.s.d.getTxn(ledgerType, seqNo)
}

// GetTxnConsensus - ask until a quorum agrees
func (sp *SharedPool) GetTxnConsensus(ledgerType ledger.Type, seqNo int64) (*Result, error) {
	if sp.isClosed() {
		return nil, fault.ErrPoolClosed
	}
	return sp.s.d.getTxnConsensus(ledgerType, seqNo)
}

// GetTxnFull - ask every node
func (sp *SharedPool) GetTxnFull(ledgerType ledger.Type, seqNo int64) (*FullResult, error) {
	if sp.isClosed() {
		return nil, fault.ErrPoolClosed
	}
	return sp.s.d.getTxnFull(ledgerType, seqNo)
}

// Registry - the validator set
func (sp *SharedPool) Registry() *registry.Registry {
	return sp.s.d.registry
}

// Name - log name of the pool
func (sp *SharedPool) Name() string {
	return sp.s.name
}

// References - number of open handles
func (sp *SharedPool) References() uint64 {
	return sp.s.refs.Uint64()
}

// LastRequestID - the most recently issued request id
func (sp *SharedPool) LastRequestID() uint64 {
	return sp.s.ids.Uint64()
}

// Close - release this handle, the last one closes the networker
func (sp *SharedPool) Close() error {
	if !atomic.CompareAndSwapInt32(&sp.closed, 0, 1) {
		return nil
	}
	if 0 != sp.s.refs.Decrement() {
		return nil
	}
	sp.s.d.log.Info("closing")
	return sp.s.d.networker.Close()
}
