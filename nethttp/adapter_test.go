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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restmachine-dev/restmachine/machine"
)

func newTestApp() *machine.Application {
	app := machine.MustNew()
	app.GET("/users/{id}", func(ctx *machine.Context) (any, error) {
		return map[string]any{"id": ctx.PathParam("id"), "q": ctx.QueryParam("q")}, nil
	})
	app.POST("/users", func(ctx *machine.Context) (any, error) {
		body, err := ctx.Resolve("body")
		if err != nil {
			return nil, err
		}

		return body, nil
	})

	return app
}

func TestServeHTTP(t *testing.T) {
	t.Parallel()

	t.Run("translates request and writes response", func(t *testing.T) {
		t.Parallel()

		h := MustNew(newTestApp())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/7?q=abc", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `"id": "7"`)
		assert.Contains(t, rec.Body.String(), `"q": "abc"`)
	})

	t.Run("request body reaches the machine", func(t *testing.T) {
		t.Parallel()

		h := MustNew(newTestApp())
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"ada"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ada")
	})

	t.Run("unknown path surfaces the machine's 404", func(t *testing.T) {
		t.Parallel()

		h := MustNew(newTestApp())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("head is served as get without a body", func(t *testing.T) {
		t.Parallel()

		h := MustNew(newTestApp())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/users/7", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.NotEqual(t, "0", rec.Header().Get("Content-Length"))
	})

	t.Run("oversized body is rejected before processing", func(t *testing.T) {
		t.Parallel()

		h := MustNew(newTestApp(), WithMaxBodyBytes(8))
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(strings.Repeat("x", 64)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	t.Run("requests are counted by method and status", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		h := MustNew(newTestApp(), WithRegisterer(reg))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/1", nil))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/2", nil))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, float64(2),
			testutil.ToFloat64(h.Metrics().Requests.WithLabelValues("GET", "200")))
		assert.Equal(t, float64(1),
			testutil.ToFloat64(h.Metrics().Requests.WithLabelValues("GET", "404")))
	})

	t.Run("metrics resolve as a session dependency", func(t *testing.T) {
		t.Parallel()

		app := machine.MustNew()
		app.GET("/observed", func(ctx *machine.Context) (any, error) {
			v, err := ctx.Resolve("metrics")
			if err != nil {
				return nil, err
			}
			_, ok := v.(*Metrics)

			return map[string]any{"have_metrics": ok}, nil
		})
		h := MustNew(app)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/observed", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"have_metrics": true`)
	})

	t.Run("duplicate registration fails construction", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		_, err := New(newTestApp(), WithRegisterer(reg))
		require.NoError(t, err)

		_, err = New(newTestApp(), WithRegisterer(reg))
		assert.Error(t, err)
	})
}
