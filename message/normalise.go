// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package message

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/bitmark-inc/ledgerclient/fault"
)

// Normaliser - reduce a node reply to the form compared for agreement
//
// two replies agree when their normalised forms are equal
type Normaliser func(payload []byte) (string, error)

// fields of a REPLY result that differ between honest nodes
var nodeSpecificFields = []string{
	"state_proof",
	"multi_signature",
}

// Normalise - the default normalisation policy
//
// REPLY: canonical JSON of the result without proof material
// REQNACK, REJECT: canonical JSON of the op and reason
//
// canonical JSON has sorted object keys, no insignificant
// whitespace and numbers in a single form, so 1, 1.0 and 1e0 agree
func Normalise(payload []byte) (string, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var m map[string]interface{}
	if err := decoder.Decode(&m); nil != err {
		return "", fault.ErrUnsupportedNormalisation
	}

	op, _ := m["op"].(string)
	switch op {
	case OpReply:
		result, ok := m["result"].(map[string]interface{})
		if !ok {
			return "", fault.ErrUnsupportedNormalisation
		}
		for _, field := range nodeSpecificFields {
			delete(result, field)
		}
		m = map[string]interface{}{
			"op":     op,
			"result": result,
		}

	case OpReqNack, OpReject:
		m = map[string]interface{}{
			"op":     op,
			"reason": m["reason"],
		}

	default:
		return "", fault.ErrUnsupportedNormalisation
	}

	buffer := &bytes.Buffer{}
	if err := canonical(buffer, m); nil != err {
		return "", err
	}
	return buffer.String(), nil
}

// Exact - byte for byte comparison
func Exact(payload []byte) (string, error) {
	return string(payload), nil
}

func canonical(buffer *bytes.Buffer, value interface{}) error {
	switch v := value.(type) {
	case nil:
		buffer.WriteString("null")

	case bool:
		buffer.WriteString(strconv.FormatBool(v))

	case json.Number:
		buffer.WriteString(canonicalNumber(v))

	case string:
		s, err := json.Marshal(v)
		if nil != err {
			return err
		}
		buffer.Write(s)

	case []interface{}:
		buffer.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := canonical(buffer, item); nil != err {
				return err
			}
		}
		buffer.WriteByte(']')

	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buffer.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buffer.WriteByte(',')
			}
			s, err := json.Marshal(k)
			if nil != err {
				return err
			}
			buffer.Write(s)
			buffer.WriteByte(':')
			if err := canonical(buffer, v[k]); nil != err {
				return err
			}
		}
		buffer.WriteByte('}')

	default:
		return fault.ErrUnsupportedNormalisation
	}
	return nil
}

func canonicalNumber(n json.Number) string {
	if i, err := strconv.ParseInt(n.String(), 10, 64); nil == err {
		return strconv.FormatInt(i, 10)
	}
	if f, err := strconv.ParseFloat(n.String(), 64); nil == err {
		if f == float64(int64(f)) && f >= -9.2e18 && f <= 9.2e18 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return n.String()
}
