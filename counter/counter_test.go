// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/bitmark-inc/ledgerclient/counter"
)

// test incrementing/decrementing a counter
func TestCounter(t *testing.T) {

	var c1 counter.Counter

	if !c1.IsZero() {
		t.Errorf("counter is not zero at start: %d", c1.Uint64())
	}

	c1.Increment()
	c1.Increment()
	c1.Increment()
	c1.Increment()
	c1.Increment()

	if 5 != c1.Uint64() {
		t.Errorf("counter is not 5 after incrementing: %d", c1.Uint64())
	}

	c1.Decrement()
	c1.Decrement()
	c1.Decrement()
	c1.Decrement()
	c1.Decrement()

	if !c1.IsZero() {
		t.Errorf("counter did not return to zero: %d", c1.Uint64())
	}

	c1.Decrement()

	// check against underflow, i.e. twos complement -1
	if ^uint64(0) != c1.Uint64() {
		t.Errorf("counter did not underflow: %d", c1.Uint64())
	}
}

// values from the atomic counter are unique across goroutines
func TestCounterConcurrentUnique(t *testing.T) {
	const workers = 8
	const each = 1000

	var c counter.Counter
	seen := make(chan uint64, workers*each)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				seen <- c.Increment()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]struct{})
	for v := range seen {
		if _, ok := unique[v]; ok {
			t.Fatalf("value issued twice: %d", v)
		}
		unique[v] = struct{}{}
	}
	if workers*each != len(unique) {
		t.Errorf("expected %d values, got: %d", workers*each, len(unique))
	}
}

// the plain counter starts from its base and strictly increases
func TestPlainFromBase(t *testing.T) {
	p := counter.Plain(41)

	var s counter.Sequence = &p
	previous := s.Uint64()
	for i := 0; i < 10; i++ {
		v := s.Increment()
		if v <= previous {
			t.Fatalf("not increasing: %d after %d", v, previous)
		}
		previous = v
	}
	if 51 != s.Uint64() {
		t.Errorf("expected 51, got: %d", s.Uint64())
	}
}
