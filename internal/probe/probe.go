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

// Package probe issues a single call against the gateway and reports how
// the request went out and what came back.
package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultPath is the endpoint probed when no path is configured.
const DefaultPath = "load-test/api/auth-casbin-success-plugin-test"

// Config holds the probe configuration.
type Config struct {
	// BaseURL is the gateway address the path is resolved against.
	BaseURL *url.URL
	// Path is the endpoint to call. Defaults to DefaultPath.
	Path string
	// Client sends the request. Defaults to http.DefaultClient.
	Client *http.Client
	// Logger is notified when the call starts and ends.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Probe calls a single gateway endpoint.
type Probe struct {
	url    string
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Probe from cfg.
func New(cfg *Config) *Probe {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{
		url:    resolve(cfg.BaseURL, path),
		client: client,
		logger: logger.With("name", "Probe"),
		now:    time.Now,
	}
}

// URL returns the absolute address that will be called.
func (p *Probe) URL() string {
	return p.url
}

// Call performs a GET request against the endpoint.
//
// A report is returned in every case. The error is non-nil only if the
// request could not be built or no response was received; error statuses
// are reported, not returned.
func (p *Probe) Call(ctx context.Context) (*Report, error) {
	start := p.now()
	rep := &Report{Started: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		rep.Err = err
		return rep, err
	}
	rep.Method = req.Method
	rep.URL = req.URL.String()
	rep.Header = req.Header

	p.logger.Info("request started", "method", req.Method, "url", rep.URL)

	res, err := p.client.Do(req)
	if err != nil {
		rep.Duration = p.now().Sub(start)
		rep.Err = err
		p.logger.Error("request failed",
			"duration", rep.Duration,
			"error", err,
		)
		return rep, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	// Prefer the request as it went out, after all interceptors ran.
	if sent := res.Request; sent != nil {
		rep.Method = sent.Method
		rep.URL = sent.URL.String()
		rep.Header = sent.Header
	}
	rep.Status = res.StatusCode

	body, err := io.ReadAll(res.Body)
	rep.Duration = p.now().Sub(start)
	if err != nil {
		rep.Err = err
		p.logger.Error("failed to read response body", "error", err)
		return rep, err
	}
	rep.Body = string(body)

	p.logger.Info("response received",
		"status", res.StatusCode,
		"duration", rep.Duration,
	)
	return rep, nil
}

// resolve joins path onto base. A nil base yields path unchanged.
func resolve(base *url.URL, path string) string {
	if base == nil {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return base.JoinPath(path).String()
	}
	return base.ResolveReference(ref).String()
}
