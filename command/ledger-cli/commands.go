// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/genesis"
	"github.com/bitmark-inc/ledgerclient/ledger"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/registry"
	"github.com/bitmark-inc/ledgerclient/zmqutil"
)

const (
	clientPublicKeyFilename  = "client.public"
	clientPrivateKeyFilename = "client.private"
)

// common errors
const (
	ErrInvalidQueryType = fault.InvalidError("invalid query type")
)

func runNodes(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	transactions, err := genesis.ReadFile(m.genesis)
	if nil != err {
		return err
	}
	r, err := registry.New(transactions)
	if nil != err {
		return err
	}

	type nodeEntry struct {
		Alias   string `json:"alias"`
		Address string `json:"address"`
	}
	type reply struct {
		N     int         `json:"n"`
		F     int         `json:"f"`
		Q     int         `json:"q"`
		Nodes []nodeEntry `json:"nodes"`
	}

	out := reply{
		N: r.Count(),
		F: r.FaultTolerance(),
		Q: r.Quorum(),
	}
	for _, node := range r.Nodes() {
		out.Nodes = append(out.Nodes, nodeEntry{
			Alias:   node.Alias,
			Address: node.Address,
		})
	}
	return printJson(m.w, out)
}

// output of single and consensus queries
type resultReply struct {
	RequestID uint64            `json:"requestId"`
	Node      string            `json:"node"`
	Votes     int               `json:"votes"`
	Result    interface{}       `json:"result"`
	Timing    map[string]string `json:"timing"`
}

// output of a full query
type nodeReply struct {
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
	Elapsed string      `json:"elapsed"`
}

type fullReply struct {
	RequestID uint64               `json:"requestId"`
	Replies   map[string]nodeReply `json:"replies"`
}

func runGet(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	queryType := strings.ToLower(strings.TrimSpace(c.String("type")))
	switch queryType {
	case "single", "consensus", "full":
	default:
		return ErrInvalidQueryType
	}

	ledgerType, err := ledger.Parse(c.String("ledger"))
	if nil != err {
		return err
	}

	seqNo := c.Int64("seq")
	if seqNo < 1 {
		return fault.ErrInvalidSequenceNumber
	}

	if m.verbose {
		fmt.Fprintf(m.e, "genesis: %q  query: %s  ledger: %s  seq: %d\n", m.genesis, queryType, ledgerType, seqNo)
	}

	f, err := m.factory(pool.ModeLocal)
	if nil != err {
		return err
	}
	p, err := f.CreateLocal()
	if nil != err {
		return err
	}
	defer p.Close()

	if "full" == queryType {
		result, err := p.GetTxnFull(ledgerType, seqNo)
		if nil != err {
			return err
		}
		out := fullReply{
			RequestID: result.RequestID,
			Replies:   make(map[string]nodeReply, len(result.Replies)),
		}
		for alias, nr := range result.Replies {
			entry := nodeReply{Elapsed: nr.Elapsed.String()}
			if nil != nr.Err {
				entry.Error = nr.Err.Error()
			} else {
				entry.Result = payloadJSON(nr.Payload)
			}
			out.Replies[alias] = entry
		}
		return printJson(m.w, out)
	}

	get := p.GetTxnConsensus
	if "single" == queryType {
		get = p.GetTxn
	}
	result, err := get(ledgerType, seqNo)
	if nil != err {
		return err
	}

	out := resultReply{
		RequestID: result.RequestID,
		Node:      result.Node,
		Votes:     result.Votes,
		Result:    payloadJSON(result.Payload),
		Timing:    make(map[string]string, len(result.Timing)),
	}
	for alias, d := range result.Timing {
		out.Timing[alias] = d.String()
	}
	return printJson(m.w, out)
}

func runGenerateKey(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	directory := c.String("directory")
	publicKeyFilename := filepath.Join(directory, clientPublicKeyFilename)
	privateKeyFilename := filepath.Join(directory, clientPrivateKeyFilename)

	if err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename); nil != err {
		return err
	}

	type reply struct {
		PublicKey  string `json:"publicKey"`
		PrivateKey string `json:"privateKey"`
	}
	return printJson(m.w, reply{
		PublicKey:  publicKeyFilename,
		PrivateKey: privateKeyFilename,
	})
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
