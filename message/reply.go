// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"encoding/json"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// operation codes of node messages
const (
	OpReply   = "REPLY"
	OpReqAck  = "REQACK"
	OpReqNack = "REQNACK"
	OpReject  = "REJECT"
)

// Envelope - routing information of a node message
type Envelope struct {
	Op        string
	RequestID uint64
	Reason    string
}

// IsFinal - true if the message completes the request at the node
//
// REQACK only acknowledges receipt and is followed by one of the
// others
func (e Envelope) IsFinal() bool {
	switch e.Op {
	case OpReply, OpReqNack, OpReject:
		return true
	default:
		return false
	}
}

type envelope struct {
	Op        string  `json:"op"`
	RequestID *uint64 `json:"reqId"`
	Reason    string  `json:"reason"`
	Result    *struct {
		RequestID *uint64 `json:"reqId"`
	} `json:"result"`
}

// ParseReply - decode the envelope of a node message
func ParseReply(payload []byte) (Envelope, error) {
	var e envelope
	if err := json.Unmarshal(payload, &e); nil != err {
		return Envelope{}, fault.ErrInvalidReply
	}

	reply := Envelope{
		Op:     e.Op,
		Reason: e.Reason,
	}
	switch {
	case nil != e.RequestID:
		reply.RequestID = *e.RequestID
	case nil != e.Result && nil != e.Result.RequestID:
		reply.RequestID = *e.Result.RequestID
	default:
		return Envelope{}, fault.ErrInvalidReply
	}

	switch e.Op {
	case OpReply, OpReqAck, OpReqNack, OpReject:
	default:
		return Envelope{}, fault.ErrInvalidReply
	}
	return reply, nil
}
