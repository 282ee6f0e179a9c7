// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerclient/counter"
	"github.com/bitmark-inc/ledgerclient/fault"
	"github.com/bitmark-inc/ledgerclient/ledger"
	"github.com/bitmark-inc/ledgerclient/pool"
	"github.com/bitmark-inc/ledgerclient/ratelimit"
	"github.com/bitmark-inc/ledgerclient/registry"
)

const (
	requestIDHeader = "X-Request-Id"
)

// the state shared by the handlers
type httpHandler struct {
	active       counter.Counter // first for 64 bit alignment
	sequence     counter.Counter
	log          *logger.L
	executor     Executor
	limiter      *rate.Limiter
	maximumDelay time.Duration
	maximumCount uint64
	router       *mux.Router
}

// NewHandler - router for the query operations
func NewHandler(log *logger.L, executor Executor, configuration *Configuration) (http.Handler, error) {
	limiter, maximumDelay, err := configuration.limits()
	if nil != err {
		return nil, err
	}

	h := &httpHandler{
		log:          log,
		executor:     executor,
		limiter:      limiter,
		maximumDelay: maximumDelay,
		maximumCount: configuration.MaximumConnections,
		router:       mux.NewRouter(),
	}

	h.router.HandleFunc("/", h.single).Methods(http.MethodGet)
	h.router.HandleFunc("/consensus", h.consensus).Methods(http.MethodGet)
	h.router.HandleFunc("/full", h.full).Methods(http.MethodGet)
	h.router.HandleFunc("/nodes", h.nodes).Methods(http.MethodGet)
	h.router.NotFoundHandler = http.HandlerFunc(h.root)
	h.router.MethodNotAllowedHandler = http.HandlerFunc(sendMethodNotAllowed)
	h.router.Use(h.admit)

	return h, nil
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// anything not routed
func (h *httpHandler) root(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w, r)
		return
	}
	sendNotFound(w)
}

// tag, count and rate limit every routed request
func (h *httpHandler) admit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if "" == id {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		active := h.active.Increment()
		defer h.active.Decrement()

		if h.maximumCount > 0 && active > h.maximumCount {
			h.log.Warnf("%s: %s refused, active: %d", id, r.URL.Path, active)
			sendError(w, "too many connections", http.StatusServiceUnavailable)
			return
		}
		if err := ratelimit.Limit(h.limiter, h.maximumDelay); nil != err {
			h.log.Warnf("%s: %s error: %s", id, r.URL.Path, err)
			sendError(w, err.Error(), http.StatusTooManyRequests)
			return
		}

		h.log.Debugf("%s: %s %q from: %s", id, r.Method, r.URL, r.RemoteAddr)
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Infof("%s: %s took: %s", id, r.URL.Path, time.Since(start))
	})
}

// query parameters of a transaction request
func (h *httpHandler) arguments(r *http.Request) (ledger.Type, int64, error) {
	ledgerType := ledger.DOMAIN
	if s := r.URL.Query().Get("ledger"); "" != s {
		l, err := ledger.Parse(s)
		if nil != err {
			return 0, 0, err
		}
		ledgerType = l
	}

	s := r.URL.Query().Get("seq_no")
	if "" == s {
		return ledgerType, int64(h.sequence.Increment()), nil
	}
	seqNo, err := strconv.ParseInt(s, 10, 64)
	if nil != err || seqNo < 1 {
		return 0, 0, fault.ErrInvalidSequenceNumber
	}
	return ledgerType, seqNo, nil
}

// GET /
func (h *httpHandler) single(w http.ResponseWriter, r *http.Request) {
	h.transaction(w, r, pool.Pool.GetTxn)
}

// GET /consensus
func (h *httpHandler) consensus(w http.ResponseWriter, r *http.Request) {
	h.transaction(w, r, pool.Pool.GetTxnConsensus)
}

func (h *httpHandler) transaction(w http.ResponseWriter, r *http.Request, get func(pool.Pool, ledger.Type, int64) (*pool.Result, error)) {
	ledgerType, seqNo, err := h.arguments(r)
	if nil != err {
		sendQueryError(w, err)
		return
	}

	var result *pool.Result
	err = h.executor.Execute(func(p pool.Pool) error {
		var err error
		result, err = get(p, ledgerType, seqNo)
		return err
	})
	if nil != err {
		h.log.Errorf("%s %d: %s", ledgerType, seqNo, err)
		sendQueryError(w, err)
		return
	}

	sendReply(w, resultReply{
		RequestID: result.RequestID,
		Ledger:    ledgerType.String(),
		SeqNo:     seqNo,
		Node:      result.Node,
		Votes:     result.Votes,
		Result:    payloadJSON(result.Payload),
		Timing:    timingJSON(result.Timing),
	})
}

// GET /full
func (h *httpHandler) full(w http.ResponseWriter, r *http.Request) {
	ledgerType, seqNo, err := h.arguments(r)
	if nil != err {
		sendQueryError(w, err)
		return
	}

	var result *pool.FullResult
	err = h.executor.Execute(func(p pool.Pool) error {
		var err error
		result, err = p.GetTxnFull(ledgerType, seqNo)
		return err
	})
	if nil != err {
		h.log.Errorf("%s %d: %s", ledgerType, seqNo, err)
		sendQueryError(w, err)
		return
	}

	replies := make(map[string]nodeReply, len(result.Replies))
	for alias, nr := range result.Replies {
		entry := nodeReply{
			Elapsed: nr.Elapsed.String(),
		}
		if nil != nr.Err {
			entry.Error = nr.Err.Error()
		} else {
			entry.Result = payloadJSON(nr.Payload)
		}
		replies[alias] = entry
	}

	sendReply(w, fullReply{
		RequestID: result.RequestID,
		Ledger:    ledgerType.String(),
		SeqNo:     seqNo,
		Replies:   replies,
		Timing:    timingJSON(result.Timing),
	})
}

// GET /nodes
func (h *httpHandler) nodes(w http.ResponseWriter, r *http.Request) {
	var reply nodesReply
	err := h.executor.Execute(func(p pool.Pool) error {
		reply = describe(p.Registry())
		return nil
	})
	if nil != err {
		sendQueryError(w, err)
		return
	}
	sendReply(w, reply)
}

// JSON bodies
type resultReply struct {
	RequestID uint64            `json:"requestId"`
	Ledger    string            `json:"ledger"`
	SeqNo     int64             `json:"seqNo"`
	Node      string            `json:"node"`
	Votes     int               `json:"votes"`
	Result    interface{}       `json:"result"`
	Timing    map[string]string `json:"timing"`
}

type nodeReply struct {
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
	Elapsed string      `json:"elapsed"`
}

type fullReply struct {
	RequestID uint64               `json:"requestId"`
	Ledger    string               `json:"ledger"`
	SeqNo     int64                `json:"seqNo"`
	Replies   map[string]nodeReply `json:"replies"`
	Timing    map[string]string    `json:"timing"`
}

type nodeEntry struct {
	Alias   string `json:"alias"`
	Address string `json:"address"`
}

type nodesReply struct {
	N     int         `json:"n"`
	F     int         `json:"f"`
	Q     int         `json:"q"`
	Nodes []nodeEntry `json:"nodes"`
}

func describe(r *registry.Registry) nodesReply {
	reply := nodesReply{
		N: r.Count(),
		F: r.FaultTolerance(),
		Q: r.Quorum(),
	}
	for _, node := range r.Nodes() {
		reply.Nodes = append(reply.Nodes, nodeEntry{
			Alias:   node.Alias,
			Address: node.Address,
		})
	}
	return reply
}

// node replies are embedded as JSON when they parse, otherwise as a string
func payloadJSON(payload []byte) interface{} {
	if json.Valid(payload) {
		return json.RawMessage(payload)
	}
	return string(payload)
}

func timingJSON(timing pool.Timing) map[string]string {
	m := make(map[string]string, len(timing))
	for alias, d := range timing {
		m[alias] = d.String()
	}
	return m
}

// status code for a query failure
func statusOf(err error) int {
	switch {
	case errors.Is(err, fault.ErrRateLimiting):
		return http.StatusTooManyRequests
	case errors.Is(err, fault.ErrPoolClosed), errors.Is(err, fault.ErrTooManyPendingRequests):
		return http.StatusServiceUnavailable
	case fault.IsErrInvalid(err):
		return http.StatusBadRequest
	case fault.IsErrTimeout(err):
		return http.StatusGatewayTimeout
	case fault.IsErrConsensus(err), fault.IsErrConnection(err), fault.IsErrNotFound(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// output a query error with its diagnostics
func sendQueryError(w http.ResponseWriter, err error) {
	body := eType{
		Code:  statusOf(err),
		Error: err.Error(),
	}

	var qe *pool.QueryError
	if errors.As(err, &qe) {
		body.Error = qe.Err.Error()
		body.RequestID = qe.RequestID
		body.Tally = qe.Tally
		if len(qe.Failures) > 0 {
			body.Failures = make(map[string]string, len(qe.Failures))
			for alias, e := range qe.Failures {
				body.Failures[alias] = e.Error()
			}
		}
	}
	send(w, body)
}

// output a JSON reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code      int               `json:"code"`
	Error     string            `json:"error"`
	RequestID uint64            `json:"requestId,omitempty"`
	Tally     map[string]int    `json:"tally,omitempty"`
	Failures  map[string]string `json:"failures,omitempty"`
}

func sendError(w http.ResponseWriter, message string, code int) {
	send(w, eType{
		Code:  code,
		Error: message,
	})
}

func send(w http.ResponseWriter, body eType) {
	text, err := json.Marshal(body)
	if nil != err {
		// composed manually in case JSON fails
		http.Error(w, `{"code":500,"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(body.Code)
	_, _ = w.Write(text)
}
