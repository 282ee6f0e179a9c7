// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"strings"
	"time"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/message"
)

// Mode - ownership regime of a pool
type Mode string

// the two regimes
const (
	ModeLocal  Mode = "local"
	ModeShared Mode = "shared"
)

// defaults
const (
	DefaultProtocolVersion    = message.ProtocolVersion2
	DefaultNodeTimeout        = 20 * time.Second
	DefaultRequestTimeout     = 60 * time.Second
	DefaultMaxPendingRequests = 1000
	DefaultMode               = ModeShared
)

// Config - static parameters of a pool
type Config struct {
	ProtocolVersion    int
	NodeTimeout        time.Duration
	RequestTimeout     time.Duration
	MaxPendingRequests int
	Mode               Mode
}

// DefaultConfig - configuration with every field at its default
func DefaultConfig() Config {
	return Config{
		ProtocolVersion:    DefaultProtocolVersion,
		NodeTimeout:        DefaultNodeTimeout,
		RequestTimeout:     DefaultRequestTimeout,
		MaxPendingRequests: DefaultMaxPendingRequests,
		Mode:               DefaultMode,
	}
}

// Validate - check all fields
func (c Config) Validate() error {
	if !message.ValidProtocolVersion(c.ProtocolVersion) {
		return fault.ErrInvalidProtocolVersion
	}
	if c.NodeTimeout <= 0 {
		return fault.ErrInvalidNodeTimeout
	}
	if c.RequestTimeout <= 0 {
		return fault.ErrInvalidRequestTimeout
	}
	if c.NodeTimeout > c.RequestTimeout {
		return fault.ErrInvalidNodeTimeout
	}
	if c.MaxPendingRequests <= 0 {
		return fault.ErrInvalidPendingLimit
	}
	if _, err := ParseMode(string(c.Mode)); nil != err {
		return err
	}
	return nil
}

// ParseMode - convert a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLocal:
		return ModeLocal, nil
	case ModeShared:
		return ModeShared, nil
	default:
		return "", fault.ErrUnsupportedPoolMode
	}
}
