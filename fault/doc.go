// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.  Each error
// belongs to a class (invalid structure, connection, timeout,
// consensus, cancelled, ...) that can be tested for with the IsErrX
// functions even when the error has been wrapped.
package fault
