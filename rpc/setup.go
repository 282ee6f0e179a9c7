// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerclient/fault"
)

const (
	readTimeout     = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Configuration - configuration file data for the HTTP front-end
type Configuration struct {
	Listen             string  `gluamapper:"listen" json:"listen"`
	MaximumConnections uint64  `gluamapper:"maximum_connections" json:"maximum_connections"`
	RequestRate        float64 `gluamapper:"request_rate" json:"request_rate"`   // per second, zero is unlimited
	RequestBurst       int     `gluamapper:"request_burst" json:"request_burst"` // defaults to 1
	MaximumDelay       int     `gluamapper:"maximum_delay" json:"maximum_delay"` // seconds to wait for a token, zero waits without bound
}

// limiter and longest wait for the configured rate
func (c *Configuration) limits() (*rate.Limiter, time.Duration, error) {
	if c.RequestRate < 0 || c.RequestBurst < 0 || c.MaximumDelay < 0 {
		return nil, 0, fault.ErrInvalidCount
	}
	if 0 == c.RequestRate {
		return rate.NewLimiter(rate.Inf, 1), 0, nil
	}
	burst := c.RequestBurst
	if 0 == burst {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.RequestRate), burst), time.Duration(c.MaximumDelay) * time.Second, nil
}

// Listener - an HTTP server run as a background process
type Listener struct {
	log      *logger.L
	listener net.Listener
	server   *http.Server
}

// NewListener - bind the configured address
func NewListener(log *logger.L, configuration *Configuration, handler http.Handler) (*Listener, error) {
	if "" == configuration.Listen {
		return nil, fault.ErrInvalidIPAddress
	}
	listener, err := net.Listen("tcp", configuration.Listen)
	if nil != err {
		log.Errorf("listen on: %q  error: %s", configuration.Listen, err)
		return nil, err
	}

	return &Listener{
		log:      log,
		listener: listener,
		server: &http.Server{
			Handler:        handler,
			ReadTimeout:    readTimeout,
			MaxHeaderBytes: 1 << 20,
		},
	}, nil
}

// Addr - the bound address
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Run - serve until shutdown
func (l *Listener) Run(args interface{}, shutdown <-chan struct{}) {
	l.log.Infof("listening on: %s", l.listener.Addr())

	finished := make(chan error, 1)
	go func() {
		finished <- l.server.Serve(l.listener)
	}()

	select {
	case <-shutdown:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := l.server.Shutdown(ctx); nil != err {
			l.log.Errorf("shutdown error: %s", err)
		}
		<-finished
	case err := <-finished:
		l.log.Criticalf("serve error: %s", err)
		<-shutdown
	}
	l.log.Info("stopped")
}
