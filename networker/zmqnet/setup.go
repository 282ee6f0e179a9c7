// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqnet

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/ledgerclient/counter"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/genesis"
	"github.com/bitmark-inc/ledgerclient/networker"
	"github.com/bitmark-inc/ledgerclient/zmqutil"
)

const (
	// DefaultNodeTimeout - time allowed for one node to reply
	DefaultNodeTimeout = 20 * time.Second

	// DefaultMaxPendingRequests - limit on concurrently active requests
	DefaultMaxPendingRequests = 1000

	commandQueueSize = 1000
	pollInterval     = 10 * time.Millisecond
	cancelledExpiry  = 2 * time.Minute
)

// Config - parameters of a ZeroMQ networker
type Config struct {
	NodeTimeout        time.Duration
	MaxPendingRequests int

	// client CURVE keys, a random pair is used if these are empty
	PrivateKey []byte
	PublicKey  []byte
}

// Networker - connections to validators over CURVE secured ZeroMQ
//
// every socket is owned by a single runner goroutine; callers only
// exchange commands with it, so one Networker may be shared freely
type Networker struct {
	sync.Mutex

	log        *logger.L
	nodes      map[string]genesis.Node
	config     Config
	commands   chan command
	active     map[uint64]int
	cancelled  *cache.Cache
	signalLock sync.Mutex
	signal     *zmq.Socket
	closed     bool
	finished   chan struct{}
}

// atomically incremented counter for log names
var networkerCounter counter.Counter

// New - create a networker for a set of nodes and start its runner
func New(nodes []genesis.Node, config Config) (*Networker, error) {

	if 0 == config.NodeTimeout {
		config.NodeTimeout = DefaultNodeTimeout
	}
	if config.NodeTimeout < 0 {
		return nil, fault.ErrInvalidNodeTimeout
	}
	if 0 == config.MaxPendingRequests {
		config.MaxPendingRequests = DefaultMaxPendingRequests
	}
	if config.MaxPendingRequests < 0 {
		return nil, fault.ErrInvalidPendingLimit
	}

	if 0 == len(config.PrivateKey) {
		public, private, err := zmqutil.NewKeyPair()
		if nil != err {
			return nil, err
		}
		config.PublicKey = public
		config.PrivateKey = private
	} else if 0 == len(config.PublicKey) {
		public, err := zmqutil.PublicFromPrivate(config.PrivateKey)
		if nil != err {
			return nil, err
		}
		config.PublicKey = public
	}

	m := make(map[string]genesis.Node, len(nodes))
	for _, node := range nodes {
		if _, err := zmqutil.ServerKeyFromVerkey(node.Verkey); nil != err {
			return nil, fmt.Errorf("node %s: %w", node.Alias, err)
		}
		m[node.Alias] = node
	}

	n := networkerCounter.Increment()
	name := fmt.Sprintf("zmqnet@%d", n)

	push, pull, err := zmqutil.NewSignalPair(fmt.Sprintf("inproc://ledgerclient-%s", name))
	if nil != err {
		return nil, err
	}

	z := &Networker{
		log:       logger.New(name),
		nodes:     m,
		config:    config,
		commands:  make(chan command, commandQueueSize),
		active:    make(map[uint64]int),
		cancelled: cache.New(cancelledExpiry, cancelledExpiry),
		signal:    push,
		finished:  make(chan struct{}),
	}

	r := newRunner(z, pull)
	go r.run()

	z.log.Infof("started with %d nodes", len(m))
	return z, nil
}

func cancelKey(requestID uint64) string {
	return strconv.FormatUint(requestID, 10)
}

// compile time check
var _ networker.Networker = (*Networker)(nil)
