// Copyright 2026 The Restmachine Authors
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

package nethttp

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/restmachine-dev/restmachine/machine"
)

// defaultMaxBodyBytes bounds how much request body the adapter reads.
const defaultMaxBodyBytes = 10 << 20

// Handler bridges net/http and a machine.Application.
//
// The machine's session dependency scope is not safe for concurrent
// mutation, and net/http serves connections concurrently, so the adapter
// serializes Process calls with a mutex. Horizontal concurrency belongs to
// the hosting layer (multiple processes or instances), matching the
// machine's synchronous one-request-at-a-time model.
type Handler struct {
	app          *machine.Application
	logger       *slog.Logger
	metrics      *Metrics
	registerer   prometheus.Registerer
	maxBodyBytes int64

	mu sync.Mutex
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the access-log logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithRegisterer registers the adapter's collectors with reg. Without this
// option the collectors still exist (and the "metrics" dependency still
// resolves) but are not exported anywhere.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(h *Handler) {
		h.registerer = reg
	}
}

// WithMaxBodyBytes caps how much request body the adapter reads.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		h.maxBodyBytes = n
	}
}

// New creates the adapter and persists its Metrics into the application's
// session scope under "metrics".
func New(app *machine.Application, opts ...Option) (*Handler, error) {
	h := &Handler{
		app:          app,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.maxBodyBytes <= 0 {
		return nil, fmt.Errorf("max body bytes must be positive, got %d", h.maxBodyBytes)
	}

	metrics, err := newMetrics(h.registerer)
	if err != nil {
		return nil, err
	}
	h.metrics = metrics
	app.Persist("metrics", metrics)

	return h, nil
}

// MustNew is New, panicking on configuration errors.
func MustNew(app *machine.Application, opts ...Option) *Handler {
	h, err := New(app, opts...)
	if err != nil {
		panic(err)
	}

	return h
}

// Metrics exposes the adapter's collectors.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// ServeHTTP translates the request, processes it, and writes the result.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := h.translate(r)
	if err != nil {
		h.logger.Warn("request body read failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)

		return
	}

	// HEAD traverses the graph as GET; the body is suppressed on the way
	// out while Content-Length still reflects the GET representation.
	isHead := req.Method == http.MethodHead
	if isHead {
		req.Method = http.MethodGet
	}

	h.mu.Lock()
	resp := h.app.Process(req)
	h.mu.Unlock()

	for name, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 && !isHead {
		_, _ = w.Write(resp.Body)
	}

	elapsed := time.Since(start)
	h.metrics.observe(r.Method, resp.Status, elapsed)
	h.logger.Info("request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", resp.Status),
		slog.Duration("duration", elapsed),
	)
}

// translate builds the in-process request value. Multi-valued query
// parameters keep their first value; the machine's model is string to
// string.
func (h *Handler) translate(r *http.Request) (*machine.Request, error) {
	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > h.maxBodyBytes {
			return nil, fmt.Errorf("request body exceeds %d bytes", h.maxBodyBytes)
		}
		body = data
	}

	var query map[string]string
	if values := r.URL.Query(); len(values) > 0 {
		query = make(map[string]string, len(values))
		for name, vs := range values {
			if len(vs) > 0 {
				query[name] = vs[0]
			}
		}
	}

	return &machine.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header,
		Body:    body,
		Query:   query,
	}, nil
}
