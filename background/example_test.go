// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"

	"github.com/bitmark-inc/ledgerclient/background"
)

type waiter struct{}

func (w *waiter) Run(args interface{}, shutdown <-chan struct{}) {
	fmt.Printf("start %s\n", args)
	<-shutdown
	fmt.Printf("stop %s\n", args)
}

func Example() {
	p := background.Start(background.Processes{&waiter{}}, "watcher")

	// Stop waits for Run to return
	p.Stop()
}
