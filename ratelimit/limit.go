// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ratelimit - token bucket limiting of incoming requests
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// Limit - wait for a single token
//
// a request that would have to wait longer than maximumDelay is
// refused immediately, zero maximumDelay means always wait
func Limit(limiter *rate.Limiter, maximumDelay time.Duration) error {
	return reserve(limiter, 1, maximumDelay)
}

// LimitN - wait for count tokens
//
// an out of range count is charged as a single token and refused
func LimitN(limiter *rate.Limiter, count int, maximumCount int, maximumDelay time.Duration) error {
	if count <= 0 || count > maximumCount {
		if err := reserve(limiter, 1, maximumDelay); nil != err {
			return err
		}
		return fault.ErrInvalidCount
	}
	return reserve(limiter, count, maximumDelay)
}

func reserve(limiter *rate.Limiter, count int, maximumDelay time.Duration) error {
	r := limiter.ReserveN(time.Now(), count)
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	delay := r.Delay()
	if maximumDelay > 0 && delay > maximumDelay {
		r.Cancel()
		return fault.ErrRateLimiting
	}
	time.Sleep(delay)
	return nil
}
