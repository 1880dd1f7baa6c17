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

// Package profiler provides a debugging interceptor that logs each HTTP
// exchange as it leaves the client.
package profiler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/deep-rent/courier/internal/intercept"
	"github.com/google/uuid"
)

// Profiler logs requests and their outcome at debug level. It should be
// registered last so that it observes the request as sent.
type Profiler struct {
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new Profiler. If logger is nil, slog.Default() is used.
func New(logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{
		logger: logger.With("name", "Profiler"),
		now:    time.Now,
	}
}

// Intercept implements the intercept.Interceptor interface.
func (p *Profiler) Intercept(chain intercept.Chain) (*http.Response, error) {
	req := chain.Request()
	// The id only correlates log lines; it is never sent.
	log := p.logger.With("exchange", uuid.NewString())

	log.Debug("sending request",
		"method", req.Method,
		"url", req.URL.String(),
		"headers", flatten(req.Header),
	)

	start := p.now()
	res, err := chain.Proceed(req)
	elapsed := p.now().Sub(start)

	if err != nil {
		log.Debug("request failed",
			"elapsed", elapsed,
			"error", err,
		)
		return res, err
	}

	log.Debug("received response",
		"status", res.StatusCode,
		"elapsed", elapsed,
		"headers", flatten(res.Header),
	)
	return res, nil
}

// flatten converts h into a log-friendly map.
func flatten(h http.Header) map[string][]string {
	m := make(map[string][]string, len(h))
	for k, v := range h {
		m[k] = v
	}
	return m
}

// Ensure Profiler satisfies the intercept.Interceptor interface.
var _ intercept.Interceptor = (*Profiler)(nil)
