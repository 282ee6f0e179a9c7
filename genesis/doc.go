// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis - pool genesis transactions
//
// A genesis file holds one JSON transaction per line, each one
// describing a validator node.  Blank lines are ignored, any other
// line must be a JSON object.  The transactions are returned in file
// order as raw strings; ParseNode extracts the identity and client
// endpoint of the node a transaction describes.
//
// Two layouts are accepted:
//
//   versioned:  {"txn":{"data":{"data":{"alias":...},"dest":"<verkey>"},...},"ver":"1",...}
//   legacy:     {"data":{"alias":...},"dest":"<verkey>",...}
package genesis
