// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// ledgerd - HTTP front-end to a pool of ledger validators
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerclient/background"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/rpc"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "var", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'D'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// NAME=VALUE pairs made available to the configuration as arg.NAME
	variables := make(map[string]string)
	for _, v := range options["var"] {
		s := strings.SplitN(v, "=", 2)
		if 2 != len(s) || "" == s[0] {
			exitwithstatus.Message("%s: variable: %q is not NAME=VALUE", program, v)
		}
		variables[s[0]] = s[1]
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: critical log setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("configuration: %+v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("genesis file: %q", theConfiguration.GenesisFile)
	p, err := createPool(theConfiguration, nil)
	if nil != err {
		fault.Criticalf("pool create error: %s", err)
		exitwithstatus.Message("pool create error: %s", err)
	}
	log.Infof("pool: %s  mode: %s  nodes: %d", p.Name(), theConfiguration.Pool.Mode, p.Registry().Count())
	if len(options["verbose"]) > 0 {
		r := p.Registry()
		fmt.Printf("validators: n=%d f=%d q=%d\n", r.Count(), r.FaultTolerance(), r.Quorum())
		for _, node := range r.Nodes() {
			fmt.Printf("  %s  %s\n", node.Alias, node.Address)
		}
	}

	executor, err := rpc.NewExecutor(p)
	fault.PanicIfError("executor", err)

	handler, err := rpc.NewHandler(logger.New("rpc"), executor, &theConfiguration.HTTP)
	if nil != err {
		p.Close()
		exitwithstatus.Message("http configuration error: %s", err)
	}

	listener, err := rpc.NewListener(logger.New("http"), &theConfiguration.HTTP, handler)
	if nil != err {
		p.Close()
		exitwithstatus.Message("http listen error: %s", err)
	}

	// stopped in reverse order
	processes := background.Processes{
		executor,
		listener,
	}

	if theConfiguration.WatchGenesis {
		watcher, err := newGenesisWatcher(
			logger.New("genesis"),
			theConfiguration.GenesisFile,
			defaultSettleTime,
			reloader(log, theConfiguration, executor, nil),
		)
		if nil != err {
			log.Errorf("genesis watch error: %s", err)
		} else {
			processes = append(processes, watcher)
		}
	}

	running := background.Start(processes, nil)
	defer running.Stop()

	if 0 == len(options["quiet"]) {
		fmt.Printf("listening on http://%s\n", listener.Addr())
	}

	// wait for CTRL-C before shutting down to allow manual testing
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}
	log.Info("shutting down…")
}
