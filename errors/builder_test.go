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

package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSONBody(t *testing.T, resp Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body))

	return body
}

func TestBuilderFallbackNegotiation(t *testing.T) {
	t.Parallel()

	b := NewBuilder()

	tests := []struct {
		name     string
		accept   string
		wantJSON bool
	}{
		{"absent accept means json", "", true},
		{"explicit json", "application/json", true},
		{"wildcard means json", "*/*", true},
		{"plain text", "text/plain", false},
		{"plain text with params", "text/plain; charset=utf-8", false},
		{"unrecognized type defaults to json", "application/xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := b.Build(BuildInput{
				Accept:  tt.accept,
				Status:  http.StatusNotFound,
				Message: "Not Found",
			})
			assert.Equal(t, http.StatusNotFound, resp.Status)
			if tt.wantJSON {
				assert.Equal(t, "application/json", resp.ContentType)
				body := decodeJSONBody(t, resp)
				assert.Equal(t, "Not Found", body["error"])
			} else {
				assert.Equal(t, "text/plain", resp.ContentType)
				assert.Contains(t, string(resp.Body), "error: Not Found\n")
			}
		})
	}
}

func TestBuilderFallbackIdentifiers(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	lookup := func(name string) (any, error) {
		switch name {
		case "request_id":
			return "req-123", nil
		case "trace_id":
			return "trace-456", nil
		default:
			return nil, assert.AnError
		}
	}

	resp := b.Build(BuildInput{
		Status:  http.StatusInternalServerError,
		Message: "boom",
		Lookup:  lookup,
	})
	body := decodeJSONBody(t, resp)
	assert.Equal(t, "req-123", body["request_id"])
	assert.Equal(t, "trace-456", body["trace_id"])
}

func TestBuilderFallbackSwallowsLookupFailures(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	lookup := func(string) (any, error) {
		return nil, assert.AnError
	}

	resp := b.Build(BuildInput{
		Status:  http.StatusBadRequest,
		Message: "Bad Request",
		Lookup:  lookup,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	body := decodeJSONBody(t, resp)
	assert.Equal(t, "Bad Request", body["error"])
	assert.NotContains(t, body, "request_id")
	assert.NotContains(t, body, "trace_id")
}

func TestBuilderFallbackDetails(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	details := []map[string]any{{"path": "name", "message": "is required"}}

	resp := b.Build(BuildInput{
		Status:  http.StatusUnprocessableEntity,
		Message: "validation failed",
		Details: details,
	})
	body := decodeJSONBody(t, resp)
	require.Contains(t, body, "details")
	list, ok := body["details"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestBuilderCustomHandler(t *testing.T) {
	t.Parallel()

	t.Run("string result becomes plain text", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register(Descriptor{
			Status: http.StatusNotFound,
			Handler: func(Lookup) (any, error) {
				return "nothing here", nil
			},
		})
		b := NewBuilder(WithRegistry(reg))

		resp := b.Build(BuildInput{Status: http.StatusNotFound, Message: "Not Found"})
		assert.Equal(t, "text/plain", resp.ContentType)
		assert.Equal(t, "nothing here", string(resp.Body))
	})

	t.Run("map result becomes json", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register(Descriptor{
			Status: http.StatusNotFound,
			Handler: func(Lookup) (any, error) {
				return map[string]any{"missing": true}, nil
			},
		})
		b := NewBuilder(WithRegistry(reg))

		resp := b.Build(BuildInput{Status: http.StatusNotFound, Message: "Not Found"})
		assert.Equal(t, "application/json", resp.ContentType)
		body := decodeJSONBody(t, resp)
		assert.Equal(t, true, body["missing"])
	})

	t.Run("response result passes through", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register(Descriptor{
			Handler: func(Lookup) (any, error) {
				return Response{
					Status:      http.StatusTeapot,
					ContentType: "text/html",
					Body:        []byte("<h1>nope</h1>"),
				}, nil
			},
		})
		b := NewBuilder(WithRegistry(reg))

		resp := b.Build(BuildInput{Status: http.StatusNotFound, Message: "Not Found"})
		assert.Equal(t, http.StatusTeapot, resp.Status)
		assert.Equal(t, "text/html", resp.ContentType)
	})

	t.Run("declared content type applies to result", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register(Descriptor{
			Status:      http.StatusNotFound,
			ContentType: "text/html",
			Handler: func(Lookup) (any, error) {
				return "<h1>Not Found</h1>", nil
			},
		})
		b := NewBuilder(WithRegistry(reg))

		resp := b.Build(BuildInput{
			Accept:  "text/html",
			Status:  http.StatusNotFound,
			Message: "Not Found",
		})
		assert.Equal(t, "text/html", resp.ContentType)
	})

	t.Run("handler failure falls back to default body", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register(Descriptor{
			Handler: func(Lookup) (any, error) {
				return nil, assert.AnError
			},
		})
		b := NewBuilder(WithRegistry(reg))

		resp := b.Build(BuildInput{Status: http.StatusNotFound, Message: "Not Found"})
		assert.Equal(t, http.StatusNotFound, resp.Status)
		body := decodeJSONBody(t, resp)
		assert.Equal(t, "Not Found", body["error"])
	})

	t.Run("handler can use the lookup", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.Register(Descriptor{
			Handler: func(lookup Lookup) (any, error) {
				id, err := lookup("request_id")
				if err != nil {
					return nil, err
				}

				return map[string]any{"id": id}, nil
			},
		})
		b := NewBuilder(WithRegistry(reg))

		resp := b.Build(BuildInput{
			Status:  http.StatusNotFound,
			Message: "Not Found",
			Lookup: func(name string) (any, error) {
				return "req-9", nil
			},
		})
		body := decodeJSONBody(t, resp)
		assert.Equal(t, "req-9", body["id"])
	})
}

func TestRegistrySelect(t *testing.T) {
	t.Parallel()

	jsonHandler := func(Lookup) (any, error) { return map[string]any{}, nil }
	textHandler := func(Lookup) (any, error) { return "text", nil }
	defaultHandler := func(Lookup) (any, error) { return "default", nil }

	reg := NewRegistry()
	reg.Register(Descriptor{Status: 404, Handler: defaultHandler})
	reg.Register(Descriptor{Status: 404, ContentType: "application/json", Handler: jsonHandler})
	reg.Register(Descriptor{Status: 404, ContentType: "text/plain", Handler: textHandler})

	t.Run("content-type match preferred over default", func(t *testing.T) {
		t.Parallel()

		d, ok := reg.Select(404, "application/json")
		require.True(t, ok)
		assert.Equal(t, "application/json", d.ContentType)
	})

	t.Run("accept drives which typed handler wins", func(t *testing.T) {
		t.Parallel()

		d, ok := reg.Select(404, "text/plain")
		require.True(t, ok)
		assert.Equal(t, "text/plain", d.ContentType)
	})

	t.Run("no typed match falls back to default", func(t *testing.T) {
		t.Parallel()

		d, ok := reg.Select(404, "application/xml")
		require.True(t, ok)
		assert.Empty(t, d.ContentType)
	})

	t.Run("status mismatch selects nothing", func(t *testing.T) {
		t.Parallel()

		_, ok := reg.Select(500, "application/json")
		assert.False(t, ok)
	})

	t.Run("zero status matches any", func(t *testing.T) {
		t.Parallel()

		anyReg := NewRegistry()
		anyReg.Register(Descriptor{Handler: defaultHandler})
		_, ok := anyReg.Select(503, "")
		assert.True(t, ok)
	})
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("implements the error interfaces", func(t *testing.T) {
		t.Parallel()

		err := New(http.StatusForbidden, "no admin scope").WithDetail([]string{"admin"})
		assert.Equal(t, http.StatusForbidden, err.HTTPStatus())
		assert.Equal(t, "no admin scope", err.Error())
		assert.Equal(t, []string{"admin"}, err.Details())
	})

	t.Run("empty message uses status text", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Not Found", New(http.StatusNotFound, "").Error())
	})

	t.Run("wrap keeps the cause", func(t *testing.T) {
		t.Parallel()

		err := Wrap(assert.AnError, http.StatusBadGateway)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	})

	t.Run("status of untyped error is 500", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusInternalServerError, StatusOf(assert.AnError))
	})

	t.Run("with status", func(t *testing.T) {
		t.Parallel()

		err := WithStatus(assert.AnError, http.StatusConflict)
		assert.Equal(t, http.StatusConflict, StatusOf(err))
		assert.ErrorIs(t, err, assert.AnError)

		nilErr := WithStatus(nil, http.StatusNoContent)
		assert.Equal(t, "No Content", nilErr.Error())
	})
}
