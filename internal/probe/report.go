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

package probe

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deep-rent/courier/internal/util"
)

// Report describes a single probe call.
type Report struct {
	Started  time.Time
	Duration time.Duration
	Method   string
	URL      string
	// Header holds the request headers as sent, or as built if the call
	// failed before a response arrived.
	Header http.Header
	Status int
	Body   string
	Err    error
}

// String renders the report as multi-line text.
func (r *Report) String() string {
	var b strings.Builder
	_, _ = r.WriteTo(&b)
	return b.String()
}

// WriteTo writes the rendered report to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Request started at: %s\n", r.Started.Format(time.TimeOnly))
	fmt.Fprintf(&b, "Duration: %dms\n\n", r.Duration.Milliseconds())
	fmt.Fprintf(&b, "Request URL: %s\n", r.URL)
	fmt.Fprintf(&b, "Request Method: %s\n\n", r.Method)
	b.WriteString("Request Headers:\n")
	writeHeader(&b, r.Header)
	b.WriteString("\n")

	// A zero status means no response arrived at all.
	if r.Status != 0 || r.Err == nil {
		fmt.Fprintf(&b, "Response Status: %d\n\n", r.Status)
		b.WriteString("Response Body:\n")
		if r.Body == "" {
			b.WriteString("No body")
		} else {
			b.WriteString(r.Body)
		}
		b.WriteString("\n")
	}
	if r.Err != nil {
		if r.Status != 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Failure: %v\n", r.Err)
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// writeHeader writes one line per header name, sorted by name.
func writeHeader(b *strings.Builder, h http.Header) {
	for _, k := range util.SortedKeys(h) {
		fmt.Fprintf(b, "%s: %s\n", k, strings.Join(h[k], ", "))
	}
}
