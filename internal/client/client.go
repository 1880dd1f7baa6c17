// Copyright (c) 2025-present deep.rent GmbH (https://www.deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client builds the HTTP client used to talk to the API gateway.
package client

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/deep-rent/courier/internal/intercept"
	"github.com/deep-rent/courier/internal/profiler"
)

const (
	// DefaultConnectTimeout is the default maximum duration for establishing
	// a connection, including the TLS handshake.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultReadTimeout is the default maximum duration to wait for the
	// response headers once the request has been written.
	DefaultReadTimeout = 60 * time.Second
	// DefaultWriteTimeout is the default budget for writing the request.
	DefaultWriteTimeout = 60 * time.Second
	// DefaultKeepAlive is the keep-alive period for open connections.
	DefaultKeepAlive = 30 * time.Second
	// DefaultIdleConnTimeout is the default maximum amount of time an idle
	// connection remains in the pool.
	DefaultIdleConnTimeout = 90 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	// Non-positive values select DefaultConnectTimeout.
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for response headers.
	// Non-positive values select DefaultReadTimeout.
	ReadTimeout time.Duration
	// WriteTimeout is added to the overall call budget.
	// Non-positive values select DefaultWriteTimeout.
	WriteTimeout time.Duration
	// Interceptors run on every request, outermost first.
	Interceptors []intercept.Interceptor
	// Debug installs a profiler.Profiler behind all other interceptors.
	Debug bool
	// Transport replaces the base round tripper. Intended for tests.
	Transport http.RoundTripper
	// Logger receives profiler output. Defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a new http.Client from cfg.
//
// The overall client timeout is the sum of the connect, write, and read
// timeouts, so a single call can never outlive all three phases.
func New(cfg *Config) *http.Client {
	connect := orDefault(cfg.ConnectTimeout, DefaultConnectTimeout)
	read := orDefault(cfg.ReadTimeout, DefaultReadTimeout)
	write := orDefault(cfg.WriteTimeout, DefaultWriteTimeout)

	base := cfg.Transport
	if base == nil {
		base = newTransport(connect, read)
	}

	interceptors := make([]intercept.Interceptor, 0, len(cfg.Interceptors)+1)
	interceptors = append(interceptors, cfg.Interceptors...)
	if cfg.Debug {
		interceptors = append(interceptors, profiler.New(cfg.Logger))
	}

	return &http.Client{
		Transport: intercept.Transport(base, interceptors...),
		Timeout:   connect + write + read,
	}
}

// newTransport creates the base http.Transport.
func newTransport(connect, read time.Duration) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   connect,
		KeepAlive: DefaultKeepAlive,
	}
	return &http.Transport{
		// Rely on the HTTP_PROXY and NO_PROXY environment variables.
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		MaxIdleConns:          100,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
