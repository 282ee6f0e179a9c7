// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// CanonicalIPandPort - make the IP:Port canonical
//
// examples:
//   IPv4:  127.0.0.1:1234
//   IPv6:  [::1]:1234
func CanonicalIPandPort(hostPort string) (string, error) {

	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return "", fault.ErrInvalidIPAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err {
		return "", fault.ErrInvalidPortNumber
	}

	s, _, err := CanonicalAddress("", host, numericPort)
	return s, err
}

// CanonicalAddress - combine a separate IP and port into an endpoint
// with an optional prefix, e.g. "tcp://", also reports if the
// address is IPv6
func CanonicalAddress(prefix string, host string, port int) (string, bool, error) {

	IP := net.ParseIP(strings.TrimSpace(host))
	if nil == IP {
		return "", false, fault.ErrInvalidIPAddress
	}

	if port < 1 || port > 65535 {
		return "", false, fault.ErrInvalidPortNumber
	}

	if nil != IP.To4() {
		return prefix + IP.String() + ":" + strconv.Itoa(port), false, nil
	}
	return prefix + "[" + IP.String() + "]:" + strconv.Itoa(port), true, nil
}
