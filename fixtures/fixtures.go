// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - deterministic validator data for tests and demonstrations
package fixtures

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
)

const (
	// BaseClientPort - client port of Node1, each further node adds 2
	BaseClientPort = 9702

	localhost = "127.0.0.1"
)

// Alias - name of the i'th node, counting from 1
func Alias(i int) string {
	return fmt.Sprintf("Node%d", i)
}

// NodeKeys - ed25519 key pair of the i'th node
//
// derived from a fixed seed so every run produces the same keys
func NodeKeys(i int) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := make([]byte, ed25519.SeedSize)
	copy(seed, fmt.Sprintf("fixture-node-seed-%d", i))
	privateKey := ed25519.NewKeyFromSeed(seed)
	return privateKey.Public().(ed25519.PublicKey), privateKey
}

// Verkey - base58 encoded public key of the i'th node
func Verkey(i int) string {
	publicKey, _ := NodeKeys(i)
	return base58.Encode(publicKey)
}

// Transaction - versioned genesis transaction for the i'th node
func Transaction(i int) string {
	clientPort := BaseClientPort + 2*(i-1)
	return fmt.Sprintf(`{"reqSignature":{},"txn":{"data":{"data":{"alias":%q,"client_ip":%q,"client_port":%d,"node_ip":%q,"node_port":%d,"services":["VALIDATOR"]},"dest":%q},"metadata":{"from":"Th7MpTaRZVRYnPiabds81Y"},"type":"0"},"txnMetadata":{"seqNo":%d},"ver":"1"}`,
		Alias(i), localhost, clientPort, localhost, clientPort-1, Verkey(i), i)
}

// LegacyTransaction - pre-versioned genesis transaction for the i'th node
func LegacyTransaction(i int) string {
	clientPort := BaseClientPort + 2*(i-1)
	return fmt.Sprintf(`{"data":{"alias":%q,"client_ip":%q,"client_port":%d,"node_ip":%q,"node_port":%d,"services":["VALIDATOR"]},"dest":%q,"identifier":"Th7MpTaRZVRYnPiabds81Y","type":"0"}`,
		Alias(i), localhost, clientPort, localhost, clientPort-1, Verkey(i))
}

// Transactions - genesis transactions for nodes 1..n
func Transactions(n int) []string {
	txns := make([]string, n)
	for i := range txns {
		txns[i] = Transaction(i + 1)
	}
	return txns
}

// Aliases - names of nodes 1..n
func Aliases(n int) []string {
	aliases := make([]string, n)
	for i := range aliases {
		aliases[i] = Alias(i + 1)
	}
	return aliases
}

// GenesisText - content of a genesis file for nodes 1..n
func GenesisText(n int) string {
	return strings.Join(Transactions(n), "\n") + "\n"
}
