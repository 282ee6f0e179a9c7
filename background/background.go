// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - start and stop long running goroutines
package background

import (
	"sync"
)

// Process - a long running task
//
// Run must return soon after shutdown is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start together
type Processes []Process

// T - handle to a started set of processes
type T struct {
	sync.Mutex
	shutdown []chan struct{}
	finished []chan struct{}
	stopped  bool
}

// Start - run each process in its own goroutine
func Start(processes Processes, args interface{}) *T {
	t := &T{
		shutdown: make([]chan struct{}, len(processes)),
		finished: make([]chan struct{}, len(processes)),
	}

	for i, p := range processes {
		shutdown := make(chan struct{})
		finished := make(chan struct{})
		t.shutdown[i] = shutdown
		t.finished[i] = finished

		go func(p Process) {
			defer close(finished)
			p.Run(args, shutdown)
		}(p)
	}
	return t
}

// Stop - stop the processes in reverse order of start
//
// each process has finished before the one started before it is
// signalled, a second Stop does nothing
func (t *T) Stop() {
	t.Lock()
	defer t.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true

	for i := len(t.shutdown) - 1; i >= 0; i -= 1 {
		close(t.shutdown[i])
		<-t.finished[i]
	}
}
