// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis

import (
	"encoding/json"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/util"
)

const (
	// VerkeySize - length of a decoded node verification key
	VerkeySize = 32

	// ServiceValidator - the service tag of an active validator
	ServiceValidator = "VALIDATOR"

	endpointPrefix = "tcp://"
)

// Node - identity and client endpoint of one validator
type Node struct {
	Alias    string
	Address  string // tcp://ip:port of the client endpoint
	IPv6     bool
	Verkey   []byte
	Services []string
}

// IsValidator - true if the node advertises the validator service
func (n Node) IsValidator() bool {
	for _, s := range n.Services {
		if ServiceValidator == s {
			return true
		}
	}
	return false
}

type nodeData struct {
	Alias      string   `json:"alias"`
	ClientIP   string   `json:"client_ip"`
	ClientPort int      `json:"client_port"`
	NodeIP     string   `json:"node_ip"`
	NodePort   int      `json:"node_port"`
	Services   []string `json:"services"`
}

type nodeTxnData struct {
	Data *nodeData `json:"data"`
	Dest string    `json:"dest"`
}

type transaction struct {
	Txn *struct {
		Data nodeTxnData `json:"data"`
	} `json:"txn"`

	// legacy layout
	nodeTxnData
}

// ParseNode - extract the node described by one genesis transaction
func ParseNode(txn string) (Node, error) {
	var t transaction
	if err := json.Unmarshal([]byte(txn), &t); nil != err {
		return Node{}, fault.ErrMalformedGenesis
	}

	data := t.nodeTxnData
	if nil != t.Txn {
		data = t.Txn.Data
	}
	if nil == data.Data {
		return Node{}, fault.ErrMissingNodeData
	}

	alias := strings.TrimSpace(data.Data.Alias)
	if "" == alias {
		return Node{}, fault.ErrInvalidNodeAlias
	}

	address, v6, err := util.CanonicalAddress(endpointPrefix, data.Data.ClientIP, data.Data.ClientPort)
	if nil != err {
		return Node{}, fault.ErrInvalidClientAddress
	}

	verkey, err := base58.Decode(data.Dest)
	if nil != err || VerkeySize != len(verkey) {
		return Node{}, fault.ErrInvalidVerkey
	}

	return Node{
		Alias:    alias,
		Address:  address,
		IPv6:     v6,
		Verkey:   verkey,
		Services: data.Data.Services,
	}, nil
}
