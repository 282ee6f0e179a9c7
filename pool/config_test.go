// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/pool"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := pool.DefaultConfig()
	assert.Nil(t, c.Validate(), "default config invalid")
	assert.Equal(t, 20*time.Second, c.NodeTimeout, "wrong node timeout")
	assert.Equal(t, 60*time.Second, c.RequestTimeout, "wrong request timeout")
	assert.Equal(t, 2, c.ProtocolVersion, "wrong protocol version")
}

func TestConfigValidate(t *testing.T) {
	testData := []struct {
		modify func(*pool.Config)
		err    error
	}{
		{func(c *pool.Config) { c.ProtocolVersion = 3 }, fault.ErrInvalidProtocolVersion},
		{func(c *pool.Config) { c.NodeTimeout = 0 }, fault.ErrInvalidNodeTimeout},
		{func(c *pool.Config) { c.RequestTimeout = -time.Second }, fault.ErrInvalidRequestTimeout},
		{func(c *pool.Config) { c.NodeTimeout = 2 * c.RequestTimeout }, fault.ErrInvalidNodeTimeout},
		{func(c *pool.Config) { c.MaxPendingRequests = 0 }, fault.ErrInvalidPendingLimit},
		{func(c *pool.Config) { c.Mode = "cooperative" }, fault.ErrUnsupportedPoolMode},
		{func(c *pool.Config) { c.ProtocolVersion = 1 }, nil},
		{func(c *pool.Config) { c.Mode = "LOCAL" }, nil},
	}

	for i, d := range testData {
		c := pool.DefaultConfig()
		d.modify(&c)
		assert.Equal(t, d.err, c.Validate(), "%d: wrong validation result", i)
	}
}

func TestParseMode(t *testing.T) {
	m, err := pool.ParseMode(" Shared ")
	assert.Nil(t, err, "parse error")
	assert.Equal(t, pool.ModeShared, m, "wrong mode")

	m, err = pool.ParseMode("local")
	assert.Nil(t, err, "parse error")
	assert.Equal(t, pool.ModeLocal, m, "wrong mode")

	_, err = pool.ParseMode("")
	assert.Equal(t, fault.ErrUnsupportedPoolMode, err, "empty mode accepted")
}
