// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Timing - time taken by each contacted node that replied or failed
type Timing map[string]time.Duration

// Result - outcome of a single node or consensus query
type Result struct {
	RequestID uint64
	Node      string // the node whose raw reply is returned
	Payload   []byte
	Votes     int // nodes that agreed, 1 for a single node query
	Timing    Timing
}

// NodeResult - reply or failure of one node
type NodeResult struct {
	Payload []byte
	Err     error
	Elapsed time.Duration
}

// FullResult - outcome of a query to every node
//
// has exactly one entry per validator
type FullResult struct {
	RequestID uint64
	Replies   map[string]NodeResult
	Timing    Timing
}

// QueryError - a failed query with its diagnostics
//
// Err is the cause and can be tested with errors.Is or the fault
// class predicates, Tally maps each normalised reply to the number of
// nodes that gave it and Failures holds the error of each node that
// did not give a usable reply
type QueryError struct {
	Err       error
	RequestID uint64
	Tally     map[string]int
	Failures  map[string]error
}

// Error - description including the diagnostics
func (e *QueryError) Error() string {
	s := fmt.Sprintf("request %d: %s", e.RequestID, e.Err)
	if len(e.Tally) > 0 {
		counts := make([]int, 0, len(e.Tally))
		for _, count := range e.Tally {
			counts = append(counts, count)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(counts)))
		s += fmt.Sprintf("  replies: %d distinct, counts: %v", len(e.Tally), counts)
	}
	if len(e.Failures) > 0 {
		nodes := make([]string, 0, len(e.Failures))
		for node, err := range e.Failures {
			nodes = append(nodes, fmt.Sprintf("%s: %s", node, err))
		}
		sort.Strings(nodes)
		s += "  failures: " + strings.Join(nodes, "; ")
	}
	return s
}

// Unwrap - the cause
func (e *QueryError) Unwrap() error {
	return e.Err
}
