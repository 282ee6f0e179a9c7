// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"sync"

	"github.com/bitmark-inc/ledgerclient/background"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/pool"
)

// Query - work done with a pool handle
type Query func(pool.Pool) error

// Executor - runs queries against the current pool
//
// Run closes the current pool on shutdown, Replace takes ownership of
// the new pool only when it succeeds
type Executor interface {
	background.Process
	Execute(Query) error
	Replace(pool.Pool) error
}

// NewExecutor - executor matching the handle type
//
// a local pool is owned by one worker goroutine that runs queries in
// turn, a shared pool is cloned for each query
func NewExecutor(p pool.Pool) (Executor, error) {
	switch h := p.(type) {
	case *pool.LocalPool:
		return NewSerial(h), nil
	case *pool.SharedPool:
		return NewConcurrent(h), nil
	default:
		return nil, fault.ErrUnsupportedPoolMode
	}
}

type job struct {
	query Query
	done  chan error
}

// Serial - runs every query on a single goroutine
type Serial struct {
	current pool.Pool // only touched by Run
	jobs    chan job
	stopped chan struct{}
}

// NewSerial - executor owning p
func NewSerial(p pool.Pool) *Serial {
	return &Serial{
		current: p,
		jobs:    make(chan job),
		stopped: make(chan struct{}),
	}
}

// Run - the worker loop
func (s *Serial) Run(args interface{}, shutdown <-chan struct{}) {
	defer close(s.stopped)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case j := <-s.jobs:
			j.done <- j.query(s.current)
		}
	}

	if nil != s.current {
		_ = s.current.Close()
		s.current = nil
	}
}

// Execute - queue a query and wait for its result
func (s *Serial) Execute(query Query) error {
	return s.submit(func(current pool.Pool) error {
		if nil == current {
			return fault.ErrPoolClosed
		}
		return query(current)
	})
}

// Replace - switch to p after the queries already queued
func (s *Serial) Replace(p pool.Pool) error {
	return s.submit(func(current pool.Pool) error {
		s.current = p
		if nil == current {
			return nil
		}
		return current.Close()
	})
}

func (s *Serial) submit(query Query) error {
	j := job{
		query: query,
		done:  make(chan error, 1),
	}
	select {
	case s.jobs <- j:
	case <-s.stopped:
		return fault.ErrPoolClosed
	}
	return <-j.done
}

// Concurrent - runs each query on a clone of a shared pool
type Concurrent struct {
	sync.RWMutex
	current *pool.SharedPool
	stopped bool
}

// NewConcurrent - executor holding one handle of p
func NewConcurrent(p *pool.SharedPool) *Concurrent {
	return &Concurrent{
		current: p,
	}
}

// Run - wait for shutdown then release the pool
func (c *Concurrent) Run(args interface{}, shutdown <-chan struct{}) {
	<-shutdown

	c.Lock()
	current := c.current
	c.current = nil
	c.stopped = true
	c.Unlock()

	if nil != current {
		_ = current.Close()
	}
}

// Execute - run query on the caller's goroutine
func (c *Concurrent) Execute(query Query) error {
	c.RLock()
	if nil == c.current {
		c.RUnlock()
		return fault.ErrPoolClosed
	}
	handle, err := c.current.Clone()
	c.RUnlock()
	if nil != err {
		return err
	}
	defer handle.Close()

	return query(handle)
}

// Replace - switch to p, queries in progress keep their clone of the
// old pool which is closed when the last of them finishes
func (c *Concurrent) Replace(p pool.Pool) error {
	shared, ok := p.(*pool.SharedPool)
	if !ok {
		return fault.ErrUnsupportedPoolMode
	}

	c.Lock()
	if c.stopped {
		c.Unlock()
		return fault.ErrPoolClosed
	}
	old := c.current
	c.current = shared
	c.Unlock()

	if nil == old {
		return nil
	}
	return old.Close()
}
