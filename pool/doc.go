// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pool - query a validator set and decide which answer to trust
//
// A pool wraps a registry of validators and one networker.  Three
// strategies are offered:
//
//   GetTxn           - ask one node, chosen round robin, return its
//                      raw reply unverified
//   GetTxnConsensus  - ask q = f+1 nodes, widening to more nodes
//                      until q of them agree on a normalised reply
//   GetTxnFull       - ask every node and return each node's reply
//                      or error
//
// Two handles exist.  LocalPool is owned by one goroutine and uses
// no synchronisation.  SharedPool may be cloned and used from many
// goroutines; the networker is closed when the last clone is closed.
package pool
