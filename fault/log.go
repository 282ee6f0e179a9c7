// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

// channel for the last messages before a fatal exit
var log *logger.L

// Initialise - open the critical log channel
//
// must be called after logger.Initialise
func Initialise() error {
	if nil != log {
		return ErrAlreadyInitialised
	}
	log = logger.New("CRITICAL")
	if nil == log {
		return ErrInvalidLoggerChannel
	}
	return nil
}

// Finalise - flush the critical channel
func Finalise() {
	if nil != log {
		log.Flush()
	}
}

// Criticalf - log a formatted message prefixed by the caller's location
func Criticalf(format string, arguments ...interface{}) {
	if _, file, line, ok := runtime.Caller(1); ok {
		a := append([]interface{}{file, line}, arguments...)
		criticalf("(%q:%d) "+format, a...)
		return
	}
	criticalf(format, arguments...)
}

// PanicIfError - log and panic when err is not nil
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	s := fmt.Sprintf("%s failed with error: %v", message, err)
	criticalf("%s", s)
	time.Sleep(100 * time.Millisecond) // let the log writer catch up
	panic(s)
}

// before Initialise messages go to stdout
func criticalf(format string, arguments ...interface{}) {
	if nil == log {
		fmt.Printf("*** "+format+"\n", arguments...)
		return
	}
	log.Criticalf(format, arguments...)
	log.Flush()
}
