// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
)

// Sequence - a source of increasing values
//
// Increment returns the new value, so starting from a base of b the
// first value issued is b+1
type Sequence interface {
	Increment() uint64
	Uint64() uint64
}

// Counter - type to denote a counter that can be synchronously incremented or decremented
// just a 64 bit unsigned integer
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (ic *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(ic), ^uint64(0))
}

// Uint64 - returns current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}

// IsZero - check if zero
func (ic *Counter) IsZero() bool {
	return ic.Uint64() == 0
}

// Plain - counter for use by a single goroutine
//
// no synchronisation: the owner must never share it
type Plain uint64

// Increment - add 1 to a counter, returns new value
func (pc *Plain) Increment() uint64 {
	*pc++
	return uint64(*pc)
}

// Uint64 - returns current value
func (pc *Plain) Uint64() uint64 {
	return uint64(*pc)
}
