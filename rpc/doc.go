// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - HTTP front-end for the pool queries
//
// routes (GET only):
//
//   /            ask one node
//   /consensus   ask until a quorum of nodes agree
//   /full        ask every node
//   /nodes       list the validator set
//
// query parameters:
//
//   seq_no=<int>    sequence number  [default: a counter starting at 1]
//   ledger=<name>   pool, domain or config  [default: domain]
//
// all bodies are JSON, errors are {"code":..,"error":..} with the
// tally and per node failures of a failed query when available
package rpc
