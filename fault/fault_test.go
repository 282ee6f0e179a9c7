// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"fmt"
	"testing"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// test that the error classes are distinct and survive wrapping
func TestClasses(t *testing.T) {
	errorList := []struct {
		err        error
		cancelled  bool
		connection bool
		consensus  bool
		io         bool
		invalid    bool
		notFound   bool
		process    bool
		timeout    bool
	}{
		{fault.ErrRequestCancelled, true, false, false, false, false, false, false, false},
		{fault.ErrNodeUnreachable, false, true, false, false, false, false, false, false},
		{fault.ErrNodeTimeout, false, true, false, false, false, false, false, false},
		{fault.ErrNoConsensus, false, false, true, false, false, false, false, false},
		{fault.ErrCannotOpenGenesisFile, false, false, false, true, false, false, false, false},
		{fault.ErrEmptyGenesis, false, false, false, false, true, false, false, false},
		{fault.ErrInsufficientValidators, false, false, false, false, true, false, false, false},
		{fault.ErrUnknownNode, false, false, false, false, false, true, false, false},
		{fault.ErrTooManyPendingRequests, false, false, false, false, false, false, true, false},
		{fault.ErrRequestTimeout, false, false, false, false, false, false, false, true},
		{fmt.Errorf("wrapped: %w", fault.ErrRequestTimeout), false, false, false, false, false, false, false, true},
		{fmt.Errorf("wrapped: %w", fault.ErrMalformedGenesis), false, false, false, false, true, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrCancelled(err) != e.cancelled {
			t.Errorf("%d: expected 'cancelled' == %v for err = %v", i, e.cancelled, err)
		}
		if fault.IsErrConnection(err) != e.connection {
			t.Errorf("%d: expected 'connection' == %v for err = %v", i, e.connection, err)
		}
		if fault.IsErrConsensus(err) != e.consensus {
			t.Errorf("%d: expected 'consensus' == %v for err = %v", i, e.consensus, err)
		}
		if fault.IsErrIO(err) != e.io {
			t.Errorf("%d: expected 'io' == %v for err = %v", i, e.io, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrTimeout(err) != e.timeout {
			t.Errorf("%d: expected 'timeout' == %v for err = %v", i, e.timeout, err)
		}
	}
}
