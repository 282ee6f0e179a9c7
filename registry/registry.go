// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry - the validator set of a pool
//
// Built once from the ordered genesis transactions.  The number of
// validators n fixes the Byzantine fault tolerance f = ⌊(n-1)/3⌋
// and the quorum q = f+1; both are derived from n on each call and
// never stored.
package registry

import (
	"fmt"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/genesis"
)

// MinimumValidators - smallest pool with a positive fault tolerance
const MinimumValidators = 4

// Registry - immutable validator set
type Registry struct {
	nodes []genesis.Node
	index map[string]int
}

// New - build a registry from raw genesis transactions
func New(transactions []string) (*Registry, error) {
	if 0 == len(transactions) {
		return nil, fault.ErrEmptyGenesis
	}
	if len(transactions) < MinimumValidators {
		return nil, fmt.Errorf("%w: n=%d", fault.ErrInsufficientValidators, len(transactions))
	}

	r := &Registry{
		nodes: make([]genesis.Node, 0, len(transactions)),
		index: make(map[string]int, len(transactions)),
	}
	for i, txn := range transactions {
		node, err := genesis.ParseNode(txn)
		if nil != err {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		if _, ok := r.index[node.Alias]; ok {
			return nil, fmt.Errorf("transaction %d: %w: %q", i+1, fault.ErrDuplicateNodeAlias, node.Alias)
		}
		r.index[node.Alias] = len(r.nodes)
		r.nodes = append(r.nodes, node)
	}
	return r, nil
}

// Count - number of validators n
func (r *Registry) Count() int {
	return len(r.nodes)
}

// FaultTolerance - maximum number of faulty validators f
func (r *Registry) FaultTolerance() int {
	return FaultTolerance(len(r.nodes))
}

// Quorum - matching replies required to trust a value q
func (r *Registry) Quorum() int {
	return Quorum(len(r.nodes))
}

// Aliases - node names in genesis order
func (r *Registry) Aliases() []string {
	aliases := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		aliases[i] = n.Alias
	}
	return aliases
}

// Nodes - copy of all nodes in genesis order
func (r *Registry) Nodes() []genesis.Node {
	nodes := make([]genesis.Node, len(r.nodes))
	copy(nodes, r.nodes)
	return nodes
}

// Node - look up a node by alias
func (r *Registry) Node(alias string) (genesis.Node, error) {
	i, ok := r.index[alias]
	if !ok {
		return genesis.Node{}, fault.ErrUnknownNode
	}
	return r.nodes[i], nil
}

// FaultTolerance - f = ⌊(n-1)/3⌋
func FaultTolerance(n int) int {
	if n < 1 {
		return 0
	}
	return (n - 1) / 3
}

// Quorum - q = f+1
func Quorum(n int) int {
	return FaultTolerance(n) + 1
}
