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
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/deep-rent/courier/internal/client"
	"github.com/deep-rent/courier/internal/intercept"
	"github.com/deep-rent/courier/internal/stamper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{
			name: "trailing slash",
			base: "http://gw:9080/",
			path: DefaultPath,
			want: "http://gw:9080/" + DefaultPath,
		},
		{
			name: "no trailing slash",
			base: "http://gw:9080",
			path: "v1/items",
			want: "http://gw:9080/v1/items",
		},
		{
			name: "nested base",
			base: "https://api.example.com/v1/",
			path: "items",
			want: "https://api.example.com/v1/items",
		},
		{
			name: "absolute path",
			base: "https://api.example.com/v1/",
			path: "/health",
			want: "https://api.example.com/health",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolve(mustParse(t, tc.base), tc.path))
		})
	}
}

func TestProbeCall(t *testing.T) {
	t.Setenv("NO_PROXY", "127.0.0.1,localhost")

	var path string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"status":"ok"}`)
		},
	))
	defer srv.Close()

	p := New(&Config{
		BaseURL: mustParse(t, srv.URL+"/"),
		Client: client.New(&client.Config{
			Interceptors: []intercept.Interceptor{stamper.New()},
		}),
		Logger: silent(),
	})

	rep, err := p.Call(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "/"+DefaultPath, path)
	assert.Equal(t, http.StatusOK, rep.Status)
	assert.Equal(t, `{"status":"ok"}`, rep.Body)
	assert.Equal(t, http.MethodGet, rep.Method)
	assert.Equal(t, srv.URL+"/"+DefaultPath, rep.URL)
	assert.Equal(t, "xxxxxx", rep.Header.Get(stamper.FirstHeaderName))
	assert.Equal(t, "yyyyyy", rep.Header.Get(stamper.SecondHeaderName))
	assert.NoError(t, rep.Err)
}

func TestProbeCallErrorStatus(t *testing.T) {
	t.Setenv("NO_PROXY", "127.0.0.1,localhost")

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		},
	))
	defer srv.Close()

	p := New(&Config{
		BaseURL: mustParse(t, srv.URL),
		Path:    "private",
		Logger:  silent(),
	})

	rep, err := p.Call(t.Context())
	require.NoError(t, err, "error statuses are not call failures")
	assert.Equal(t, http.StatusForbidden, rep.Status)
	assert.Equal(t, "forbidden\n", rep.Body)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestProbeCallFailure(t *testing.T) {
	want := errors.New("connection refused")
	base := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, want
	})

	p := New(&Config{
		BaseURL: mustParse(t, "http://gw:9080/"),
		Client: client.New(&client.Config{
			Interceptors: []intercept.Interceptor{stamper.New()},
			Transport:    base,
		}),
		Logger: silent(),
	})

	rep, err := p.Call(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, want)
	assert.ErrorIs(t, rep.Err, want)
	assert.Zero(t, rep.Status)
	// Headers are those built before interception.
	assert.Empty(t, rep.Header.Get(stamper.FirstHeaderName))
	assert.Contains(t, rep.String(), "Failure: ")
	assert.Contains(t, rep.String(), "connection refused")
}

func TestProbeCallInvalidURL(t *testing.T) {
	p := New(&Config{Path: "http://[::1", Logger: silent()})
	rep, err := p.Call(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, rep.Err)
}

func TestReportString(t *testing.T) {
	start := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	t.Run("Response", func(t *testing.T) {
		rep := &Report{
			Started:  start,
			Duration: 1250 * time.Millisecond,
			Method:   http.MethodGet,
			URL:      "https://api.example.com/v1/items",
			Header: http.Header{
				"Client-Header-Name2": {"yyyyyy"},
				"Accept":              {"application/json"},
				"Client-Header-Name1": {"original", "xxxxxx"},
			},
			Status: http.StatusOK,
			Body:   `{"items":[]}`,
		}

		want := strings.Join([]string{
			"Request started at: 15:04:05",
			"Duration: 1250ms",
			"",
			"Request URL: https://api.example.com/v1/items",
			"Request Method: GET",
			"",
			"Request Headers:",
			"Accept: application/json",
			"Client-Header-Name1: original, xxxxxx",
			"Client-Header-Name2: yyyyyy",
			"",
			"Response Status: 200",
			"",
			"Response Body:",
			`{"items":[]}`,
			"",
		}, "\n")
		assert.Equal(t, want, rep.String())
	})

	t.Run("NoBody", func(t *testing.T) {
		rep := &Report{Started: start, Status: http.StatusNoContent}
		assert.Contains(t, rep.String(), "Response Body:\nNo body\n")
	})

	t.Run("Failure", func(t *testing.T) {
		rep := &Report{
			Started: start,
			Method:  http.MethodGet,
			URL:     "http://gw/",
			Err:     errors.New("i/o timeout"),
		}
		out := rep.String()
		assert.Contains(t, out, "Failure: i/o timeout\n")
		assert.NotContains(t, out, "Response Body:")
	})

	t.Run("BodyFailure", func(t *testing.T) {
		rep := &Report{
			Started: start,
			Method:  http.MethodGet,
			URL:     "http://gw/",
			Status:  http.StatusOK,
			Err:     io.ErrUnexpectedEOF,
		}
		out := rep.String()
		assert.Contains(t, out, "Response Status: 200\n")
		assert.True(t, strings.HasSuffix(out,
			"Response Body:\nNo body\n\nFailure: unexpected EOF\n"), out)
	})
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
func (failingBody) Close() error { return nil }

func TestProbeCallBodyFailure(t *testing.T) {
	base := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       failingBody{},
			Request:    req,
		}, nil
	})
	p := New(&Config{
		BaseURL: mustParse(t, "http://gw/"),
		Client:  &http.Client{Transport: base},
		Logger:  silent(),
	})

	rep, err := p.Call(t.Context())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.NotNil(t, rep)
	assert.Equal(t, http.StatusOK, rep.Status)
	assert.Contains(t, rep.String(), "Failure: unexpected EOF")
}
