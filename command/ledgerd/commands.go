// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/ledgerclient/genesis"
	"github.com/bitmark-inc/ledgerclient/registry"
	"github.com/bitmark-inc/ledgerclient/zmqutil"
)

const (
	clientPublicKeyFilename  = "client.public"
	clientPrivateKeyFilename = "client.private"
)

// setup command handler
//
// commands that do not need the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-client-key", "key":
		publicKeyFilename := getFilenameWithDirectory(arguments, clientPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, clientPrivateKeyFilename)
		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg", "nodes":
		return false // defer processing until configuration is read

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [--var=NAME=VALUE...] [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-client-key [DIR]       (key)    - create private key in: %q\n", "DIR/"+clientPrivateKeyFilename)
		fmt.Printf("                                        and the public key in: %q\n", "DIR/"+clientPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  nodes                               - list the validators of the genesis file\n")
		fmt.Printf("\n")
	}

	// indicate processing complete and prefor normal exit from main
	return true
}

// configuration commands
//
// commands that need the configuration but do not start the server
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "run"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJson(options)

	case "nodes":
		transactions, err := genesis.ReadFile(options.GenesisFile)
		if nil != err {
			exitwithstatus.Message("genesis file: %q error: %s", options.GenesisFile, err)
		}
		r, err := registry.New(transactions)
		if nil != err {
			exitwithstatus.Message("genesis file: %q error: %s", options.GenesisFile, err)
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
			out.Nodes = append(out.Nodes, nodeEntry{Alias: node.Alias, Address: node.Address})
		}
		printJson(out)

	default: // unknown commands fall through to quit
		return false
	}

	return true
}

// first argument is a directory, default is the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	directory := "."
	if len(arguments) > 0 && "" != arguments[0] {
		directory = arguments[0]
	}
	return filepath.Join(directory, name)
}

func printJson(data interface{}) {
	b, err := json.MarshalIndent(data, "", "  ")
	if nil != err {
		exitwithstatus.Message("json error: %s", err)
	}
	fmt.Printf("%s\n", b)
}
