// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerclient/counter"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/ledger"
	"github.com/bitmark-inc/ledgerclient/message"
	"github.com/bitmark-inc/ledgerclient/networker"
	"github.com/bitmark-inc/ledgerclient/registry"
)

// runs queries for one pool handle
//
// ids and cursor are plain counters for a local pool and atomic ones
// for a shared pool, nothing else here is mutated after creation
type dispatcher struct {
	log       *logger.L
	registry  *registry.Registry
	config    Config
	normalise message.Normaliser
	networker networker.Networker
	ids       counter.Sequence
	cursor    counter.Sequence
}

// one query in progress, never shared
type query struct {
	d         *dispatcher
	requestID uint64
	request   []byte
	order     []string
	next      int
	replies   chan networker.Reply
	timing    Timing
	failures  map[string]error
}

func (d *dispatcher) begin(ledgerType ledger.Type, seqNo int64) (*query, error) {
	if !ledgerType.Valid() {
		return nil, fault.ErrInvalidLedgerType
	}
	if seqNo < 1 {
		return nil, fault.ErrInvalidSequenceNumber
	}

	requestID := d.ids.Increment()
	request, err := message.GetTxn(requestID, ledgerType, seqNo, d.config.ProtocolVersion)
	if nil != err {
		return nil, err
	}

	// round robin starting node
	aliases := d.registry.Aliases()
	n := len(aliases)
	start := int((d.cursor.Increment() - 1) % uint64(n))
	order := append(aliases[start:], aliases[:start]...)

	d.log.Debugf("request: %d  ledger: %s  seq: %d  first node: %s", requestID, ledgerType, seqNo, order[0])

	return &query{
		d:         d,
		requestID: requestID,
		request:   request,
		order:     order,
		replies:   make(chan networker.Reply, n),
		timing:    make(Timing),
		failures:  make(map[string]error),
	}, nil
}

// send to the next untried node, false if the send failed
func (qy *query) sendNext() bool {
	node := qy.order[qy.next]
	qy.next += 1

	err := qy.d.networker.Send(qy.requestID, node, qy.request, qy.replies)
	if nil != err {
		qy.d.log.Warnf("request: %d  node: %s  send error: %s", qy.requestID, node, err)
		qy.failures[node] = err
		return false
	}
	return true
}

func (qy *query) untried() int {
	return len(qy.order) - qy.next
}

// record the node's time and return its error if any
func (qy *query) receive(r networker.Reply) error {
	qy.timing[r.Node] = r.Elapsed
	if nil != r.Err {
		qy.d.log.Debugf("request: %d  node: %s  error: %s", qy.requestID, r.Node, r.Err)
		qy.failures[r.Node] = r.Err
	}
	return r.Err
}

// mark contacted nodes that have not answered
func (qy *query) abandon(err error) {
	for _, node := range qy.order[:qy.next] {
		if _, ok := qy.timing[node]; ok {
			continue
		}
		if _, ok := qy.failures[node]; ok {
			continue
		}
		qy.failures[node] = err
	}
}

func (qy *query) fail(err error, tally map[string]int) *QueryError {
	if nil == tally {
		tally = make(map[string]int)
	}
	qy.d.log.Errorf("request: %d  failed: %s", qy.requestID, err)
	return &QueryError{
		Err:       err,
		RequestID: qy.requestID,
		Tally:     tally,
		Failures:  qy.failures,
	}
}

// release everything still outstanding for the request
func (qy *query) finish() {
	qy.d.networker.Cancel(qy.requestID)
}

func (d *dispatcher) getTxn(ledgerType ledger.Type, seqNo int64) (*Result, error) {
	qy, err := d.begin(ledgerType, seqNo)
	if nil != err {
		return nil, err
	}
	defer qy.finish()

	node := qy.order[0]
	if !qy.sendNext() {
		return nil, qy.fail(qy.failures[node], nil)
	}

	deadline := time.NewTimer(d.config.RequestTimeout)
	defer deadline.Stop()

	for {
		select {
		case r := <-qy.replies:
			if r.RequestID != qy.requestID || r.Node != node {
				continue
			}
			if err := qy.receive(r); nil != err {
				return nil, qy.fail(err, nil)
			}
			return &Result{
				RequestID: qy.requestID,
				Node:      node,
				Payload:   r.Payload,
				Votes:     1,
				Timing:    qy.timing,
			}, nil

		case <-deadline.C:
			return nil, qy.fail(fault.ErrRequestTimeout, nil)
		}
	}
}

// a set of nodes that gave the same normalised reply
type bucket struct {
	count   int
	node    string
	payload []byte
}

func (d *dispatcher) getTxnConsensus(ledgerType ledger.Type, seqNo int64) (*Result, error) {
	qy, err := d.begin(ledgerType, seqNo)
	if nil != err {
		return nil, err
	}
	defer qy.finish()

	q := d.registry.Quorum()
	buckets := make(map[string]*bucket)
	best := 0
	outstanding := 0

	tally := func() map[string]int {
		t := make(map[string]int, len(buckets))
		for value, b := range buckets {
			t[value] = b.count
		}
		return t
	}

	// count one reply, returning the bucket if it reached quorum
	count := func(r networker.Reply) *bucket {
		if r.RequestID != qy.requestID {
			return nil
		}
		// one vote per node
		if _, seen := qy.timing[r.Node]; seen {
			return nil
		}
		outstanding -= 1
		if err := qy.receive(r); nil != err {
			return nil
		}

		value, err := d.normalise(r.Payload)
		if nil != err {
			d.log.Warnf("request: %d  node: %s  normalise error: %s", qy.requestID, r.Node, err)
			qy.failures[r.Node] = err
			return nil
		}

		b, ok := buckets[value]
		if !ok {
			b = &bucket{node: r.Node, payload: r.Payload}
			buckets[value] = b
		}
		b.count += 1
		if b.count > best {
			best = b.count
		}
		if b.count >= q {
			return b
		}
		return nil
	}

	agreed := func(b *bucket) *Result {
		d.log.Infof("request: %d  consensus: %d of %d nodes", qy.requestID, b.count, d.registry.Count())
		return &Result{
			RequestID: qy.requestID,
			Node:      b.node,
			Payload:   b.payload,
			Votes:     b.count,
			Timing:    qy.timing,
		}
	}

	// replies already delivered still count before giving up
	drain := func() *bucket {
		for {
			select {
			case r := <-qy.replies:
				if b := count(r); nil != b {
					return b
				}
			default:
				return nil
			}
		}
	}

	deadline := time.NewTimer(d.config.RequestTimeout)
	defer deadline.Stop()

	for {
		// enough sends in flight that quorum could still be
		// reached by them alone, starting with a batch of q
		for outstanding < q-best && qy.untried() > 0 {
			if qy.sendNext() {
				outstanding += 1
			}
		}

		if best+outstanding < q {
			drain()
			qy.abandon(fault.ErrRequestCancelled)
			return nil, qy.fail(fault.ErrNoConsensus, tally())
		}

		select {
		case r := <-qy.replies:
			if b := count(r); nil != b {
				return agreed(b), nil
			}

		case <-deadline.C:
			if b := drain(); nil != b {
				return agreed(b), nil
			}
			qy.abandon(fault.ErrRequestTimeout)
			return nil, qy.fail(fault.ErrRequestTimeout, tally())
		}
	}
}

func (d *dispatcher) getTxnFull(ledgerType ledger.Type, seqNo int64) (*FullResult, error) {
	qy, err := d.begin(ledgerType, seqNo)
	if nil != err {
		return nil, err
	}
	defer qy.finish()

	replies := make(map[string]NodeResult, len(qy.order))
	outstanding := 0
	for qy.untried() > 0 {
		node := qy.order[qy.next]
		if qy.sendNext() {
			outstanding += 1
		} else {
			replies[node] = NodeResult{Err: qy.failures[node]}
		}
	}

	if 0 == outstanding {
		return nil, qy.fail(fault.ErrNoNodesContacted, nil)
	}

	deadline := time.NewTimer(d.config.RequestTimeout)
	defer deadline.Stop()

wait:
	for outstanding > 0 {
		select {
		case r := <-qy.replies:
			if r.RequestID != qy.requestID {
				continue
			}
			if _, seen := replies[r.Node]; seen {
				continue
			}
			outstanding -= 1
			qy.receive(r)
			replies[r.Node] = NodeResult{
				Payload: r.Payload,
				Err:     r.Err,
				Elapsed: r.Elapsed,
			}

		case <-deadline.C:
			break wait
		}
	}

	for _, node := range qy.order {
		if _, ok := replies[node]; !ok {
			replies[node] = NodeResult{Err: fault.ErrRequestTimeout}
		}
	}

	d.log.Infof("request: %d  full: %d nodes, %d failed", qy.requestID, len(replies), len(qy.failures))

	return &FullResult{
		RequestID: qy.requestID,
		Replies:   replies,
		Timing:    qy.timing,
	}, nil
}
