// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool_test

import (
	"strconv"

	"github.com/bitmark-inc/ledgerclient/fixtures"
)

// alias of the zero based i'th node
func aliasOf(i int) string {
	return fixtures.Alias(i + 1)
}

func fixturesAliases(n int) []string {
	return fixtures.Aliases(n)
}

func uint64String(i uint64) string {
	return strconv.FormatUint(i, 10)
}
