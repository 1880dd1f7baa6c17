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

// Package stamper decorates outgoing requests with the fixed client headers
// expected by the API gateway.
package stamper

import (
	"net/http"

	"github.com/deep-rent/courier/internal/intercept"
)

const (
	// FirstHeaderName is the name of the first client header.
	FirstHeaderName = "Client-Header-Name1"
	// FirstHeaderValue is the value sent under FirstHeaderName.
	FirstHeaderValue = "xxxxxx"
	// SecondHeaderName is the name of the second client header.
	SecondHeaderName = "Client-Header-Name2"
	// SecondHeaderValue is the value sent under SecondHeaderName.
	SecondHeaderValue = "yyyyyy"
)

// Stamper is an intercept.Interceptor that appends the two client headers
// to every request. It holds no state and is safe for concurrent use.
//
// Values are added, never set: a header already present on the request
// keeps its values and receives the client value alongside them.
type Stamper struct{}

// New creates a new Stamper.
func New() *Stamper {
	return &Stamper{}
}

// Intercept implements the intercept.Interceptor interface.
//
// The request passed downstream is a clone of the current one; the original
// is never touched. Errors from the chain are returned unchanged.
func (s *Stamper) Intercept(chain intercept.Chain) (*http.Response, error) {
	req := chain.Request()
	req = req.Clone(req.Context())
	stamp(req)
	return chain.Proceed(req)
}

// stamp appends the client headers to req in a fixed order.
func stamp(req *http.Request) {
	if req.Header == nil {
		req.Header = make(http.Header, 2)
	}
	req.Header.Add(FirstHeaderName, FirstHeaderValue)
	req.Header.Add(SecondHeaderName, SecondHeaderValue)
}

// Ensure Stamper satisfies the intercept.Interceptor interface.
var _ intercept.Interceptor = (*Stamper)(nil)
