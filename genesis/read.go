// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package genesis

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// longest line accepted from a genesis file
const maximumLineLength = 1024 * 1024

// ReadFile - load the transactions from a genesis file
func ReadFile(fileName string) ([]string, error) {
	f, err := os.Open(fileName)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrCannotOpenGenesisFile, err)
	}
	defer f.Close()

	return Read(f)
}

// Read - load the transactions from a stream
//
// returns an error if any non-blank line is not a JSON object or if
// no transactions were found
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maximumLineLength)

	transactions := make([]string, 0, 8)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber += 1

		line := scanner.Text()
		if "" == strings.TrimSpace(line) {
			continue
		}

		// just validating, result is discarded
		object := make(map[string]json.RawMessage)
		if err := json.Unmarshal([]byte(line), &object); nil != err {
			return nil, fmt.Errorf("line %d: %w", lineNumber, fault.ErrMalformedGenesis)
		}

		transactions = append(transactions, line)
	}
	if err := scanner.Err(); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrCannotReadGenesisFile, err)
	}

	if 0 == len(transactions) {
		return nil, fault.ErrEmptyGenesis
	}
	return transactions, nil
}
