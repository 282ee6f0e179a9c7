// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// ledger-cli - one shot queries against a pool of ledger validators
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerclient/factory"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr, nil)

	err := app.Run(os.Args)
	stopLogging()
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// nil newNetworker selects the ZeroMQ transport
func newApp(w io.Writer, e io.Writer, newNetworker factory.NetworkerConstructor) *cli.App {
	app := cli.NewApp()
	app.Name = "ledger-cli"
	app.Usage = "query the transactions of a validator pool"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "genesis, g",
			Value: "genesis.txn",
			Usage: " genesis transactions `FILE`",
		},
		cli.IntFlag{
			Name:  "protocol, p",
			Value: 2,
			Usage: " node protocol `VERSION`",
		},
		cli.IntFlag{
			Name:  "node-timeout",
			Value: 20,
			Usage: " seconds to wait for one node `SECONDS`",
		},
		cli.IntFlag{
			Name:  "request-timeout",
			Value: 60,
			Usage: " seconds to wait for a whole query `SECONDS`",
		},
		cli.StringFlag{
			Name:  "client-key, k",
			Value: "",
			Usage: " CURVE private key `FILE` [default: a new key each run]",
		},
		cli.StringFlag{
			Name:  "log-directory",
			Value: "",
			Usage: " write a log file in `DIR`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "nodes",
			Usage:     "list the validators of the genesis file",
			ArgsUsage: " ",
			Action:    runNodes,
		},
		{
			Name:      "get",
			Usage:     "fetch a transaction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "type, t",
					Value: "consensus",
					Usage: " query `TYPE` [single|consensus|full]",
				},
				cli.StringFlag{
					Name:  "ledger, l",
					Value: "domain",
					Usage: " ledger `NAME` [pool|domain|config]",
				},
				cli.Int64Flag{
					Name:  "seq, s",
					Value: 0,
					Usage: "*sequence number `N`",
				},
			},
			Action: runGet,
		},
		{
			Name:      "generate-key",
			Usage:     "create a CURVE key pair for the client",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "directory, d",
					Value: ".",
					Usage: " output `DIR`",
				},
			},
			Action: runGenerateKey,
		},
		{
			Name:      "version",
			Usage:     "display ledger-cli version",
			ArgsUsage: " ",
			Action:    runVersion,
		},
	}

	// setup globals
	app.Before = func(c *cli.Context) error {
		m := &metadata{
			genesis:      c.GlobalString("genesis"),
			clientKey:    c.GlobalString("client-key"),
			verbose:      c.GlobalBool("verbose"),
			newNetworker: newNetworker,
			e:            c.App.ErrWriter,
			w:            c.App.Writer,
		}
		m.config.ProtocolVersion = c.GlobalInt("protocol")
		m.config.NodeTimeout = seconds(c.GlobalInt("node-timeout"))
		m.config.RequestTimeout = seconds(c.GlobalInt("request-timeout"))

		c.App.Metadata["config"] = m

		switch c.Args().Get(0) {
		case "version", "generate-key", "help", "h", "":
			return nil
		}
		return startLogging(c.GlobalString("log-directory"), m.verbose)
	}

	return app
}
