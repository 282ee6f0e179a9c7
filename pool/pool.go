// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerclient/counter"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/ledger"
	"github.com/bitmark-inc/ledgerclient/message"
	"github.com/bitmark-inc/ledgerclient/networker"
	"github.com/bitmark-inc/ledgerclient/registry"
)

// Pool - the query operations common to both handles
type Pool interface {
	GetTxn(ledger.Type, int64) (*Result, error)
	GetTxnConsensus(ledger.Type, int64) (*Result, error)
	GetTxnFull(ledger.Type, int64) (*FullResult, error)
	Registry() *registry.Registry
	Name() string
	Close() error
}

// atomically incremented counter for log names
var poolCounter counter.Counter

// Parameters - what a pool is built from
type Parameters struct {
	Registry   *registry.Registry
	Networker  networker.Networker
	Config     Config
	Normaliser message.Normaliser // nil for message.Normalise
}

// request ids start from the creation time so that ids from
// successive pools in one process do not collide
func initialRequestID() uint64 {
	return uint64(time.Now().UnixNano() / 1000)
}

func newDispatcher(p Parameters, ids counter.Sequence, cursor counter.Sequence) (*dispatcher, string, error) {
	if nil == p.Registry || nil == p.Networker {
		return nil, "", fault.ErrMissingPoolParameters
	}
	if err := p.Config.Validate(); nil != err {
		return nil, "", err
	}

	normalise := p.Normaliser
	if nil == normalise {
		normalise = message.Normalise
	}

	name := fmt.Sprintf("pool@%d", poolCounter.Increment())
	log := logger.New(name)

	if err := p.Networker.Open(p.Registry.Aliases()); nil != err {
		log.Errorf("open error: %s", err)
		return nil, "", err
	}

	log.Infof("mode: %s  n: %d  f: %d  q: %d", p.Config.Mode, p.Registry.Count(), p.Registry.FaultTolerance(), p.Registry.Quorum())

	return &dispatcher{
		log:       log,
		registry:  p.Registry,
		config:    p.Config,
		normalise: normalise,
		networker: p.Networker,
		ids:       ids,
		cursor:    cursor,
	}, name, nil
}

// New - create the handle selected by the configured mode
func New(p Parameters) (Pool, error) {
	mode, err := ParseMode(string(p.Config.Mode))
	if nil != err {
		return nil, err
	}
	if ModeLocal == mode {
		lp, err := NewLocal(p)
		if nil != err {
			return nil, err
		}
		return lp, nil
	}
	sp, err := NewShared(p)
	if nil != err {
		return nil, err
	}
	return sp, nil
}
