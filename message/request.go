// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"encoding/json"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/ledger"
)

// protocol versions understood by the nodes
const (
	ProtocolVersion1 = 1
	ProtocolVersion2 = 2
)

const (
	// TypeGetTxn - operation type of a read by sequence number
	TypeGetTxn = "3"

	// DefaultIdentifier - submitter of unsigned read requests
	DefaultIdentifier = "LibindyDid111111111111"
)

type getTxnOperation struct {
	Type     string `json:"type"`
	Data     int64  `json:"data"`
	LedgerID int    `json:"ledgerId"`
}

type request struct {
	Operation       getTxnOperation `json:"operation"`
	Identifier      string          `json:"identifier"`
	RequestID       uint64          `json:"reqId"`
	ProtocolVersion int             `json:"protocolVersion"`
}

// ValidProtocolVersion - check a protocol version is supported
func ValidProtocolVersion(version int) bool {
	return ProtocolVersion1 == version || ProtocolVersion2 == version
}

// GetTxn - serialise a read of one transaction from a ledger
func GetTxn(requestID uint64, ledgerType ledger.Type, seqNo int64, protocolVersion int) ([]byte, error) {
	if !ledgerType.Valid() {
		return nil, fault.ErrInvalidLedgerType
	}
	if seqNo <= 0 {
		return nil, fault.ErrInvalidSequenceNumber
	}
	if !ValidProtocolVersion(protocolVersion) {
		return nil, fault.ErrInvalidProtocolVersion
	}

	r := request{
		Operation: getTxnOperation{
			Type:     TypeGetTxn,
			Data:     seqNo,
			LedgerID: ledgerType.ID(),
		},
		Identifier:      DefaultIdentifier,
		RequestID:       requestID,
		ProtocolVersion: protocolVersion,
	}
	return json.Marshal(r)
}
