// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"strings"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// Type - logical partition of the ledger
type Type int

// all ledgers, values are the ledger ids used on the wire
const (
	POOL   Type = 0
	DOMAIN Type = 1
	CONFIG Type = 2
)

// names of all ledgers
const (
	Pool   = "pool"
	Domain = "domain"
	Config = "config"
)

// Valid - validate a ledger type
func (t Type) Valid() bool {
	switch t {
	case POOL, DOMAIN, CONFIG:
		return true
	default:
		return false
	}
}

// ID - the ledger id sent to a node
func (t Type) ID() int {
	return int(t)
}

// String - lower case name of the ledger
func (t Type) String() string {
	switch t {
	case POOL:
		return Pool
	case DOMAIN:
		return Domain
	case CONFIG:
		return Config
	default:
		return "unknown"
	}
}

// Parse - convert a ledger name, case insensitive
func Parse(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Pool:
		return POOL, nil
	case Domain:
		return DOMAIN, nil
	case Config:
		return CONFIG, nil
	default:
		return 0, fault.ErrInvalidLedgerType
	}
}
