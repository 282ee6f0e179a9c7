// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// the file is a Lua chunk that returns a table, most of base Lua is
// available so a file can read other files or call os.getenv, and
// values given on the command line appear in the global "arg" table
package configuration
