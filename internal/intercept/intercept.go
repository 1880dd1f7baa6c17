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

// Package intercept runs outgoing HTTP requests through an ordered list of
// interceptors before they reach the network.
//
// Each interceptor receives a Chain holding the in-flight request. It may
// derive a new request and hand it to the next stage with Chain.Proceed,
// which eventually calls the base http.RoundTripper.
package intercept

import "net/http"

// Chain represents an in-flight request together with the ability to
// continue processing at the next stage.
type Chain interface {
	// Request returns the request as it arrived at the current stage.
	Request() *http.Request

	// Proceed hands req to the next stage and returns its response. Errors
	// raised further down are returned unchanged.
	Proceed(req *http.Request) (*http.Response, error)
}

// Interceptor observes or rewrites requests passing through a Chain.
//
// Implementations must not mutate the request returned by Chain.Request;
// derive a copy instead, as http.RoundTripper requires.
type Interceptor interface {
	Intercept(chain Chain) (*http.Response, error)
}

// InterceptorFunc adapts an ordinary function to the Interceptor interface.
type InterceptorFunc func(chain Chain) (*http.Response, error)

// Intercept implements the Interceptor interface.
func (f InterceptorFunc) Intercept(chain Chain) (*http.Response, error) {
	return f(chain)
}

// transport is a http.RoundTripper that feeds every request through the
// registered interceptors.
type transport struct {
	base         http.RoundTripper
	interceptors []Interceptor
}

// Transport creates a new http.RoundTripper that runs the interceptors in
// the given order (outermost first), then invokes base.
//
// If base is nil, http.DefaultTransport is used. Nil interceptors are
// dropped. If no interceptors remain, base is returned as is.
func Transport(
	base http.RoundTripper,
	interceptors ...Interceptor,
) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	list := make([]Interceptor, 0, len(interceptors))
	for _, i := range interceptors {
		if i != nil {
			list = append(list, i)
		}
	}
	if len(list) == 0 {
		return base
	}
	return &transport{
		base:         base,
		interceptors: list,
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	head := &link{
		req:          req,
		base:         t.base,
		interceptors: t.interceptors,
	}
	return head.Proceed(req)
}

// Ensure transport satisfies the http.RoundTripper interface.
var _ http.RoundTripper = (*transport)(nil)

// link is a single stage of the chain. The interceptor at index is the one
// that will be called by Proceed.
type link struct {
	req          *http.Request
	index        int
	base         http.RoundTripper
	interceptors []Interceptor
}

// Request implements the Chain interface.
func (l *link) Request() *http.Request {
	return l.req
}

// Proceed implements the Chain interface.
func (l *link) Proceed(req *http.Request) (*http.Response, error) {
	if l.index >= len(l.interceptors) {
		return l.base.RoundTrip(req)
	}
	next := &link{
		req:          req,
		index:        l.index + 1,
		base:         l.base,
		interceptors: l.interceptors,
	}
	return l.interceptors[l.index].Intercept(next)
}

// Ensure link satisfies the Chain interface.
var _ Chain = (*link)(nil)
