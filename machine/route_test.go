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

package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTemplate(t *testing.T) {
	t.Parallel()

	t.Run("literals and parameters", func(t *testing.T) {
		t.Parallel()

		segments, err := compileTemplate("/users/{id}/posts/{post}")
		require.NoError(t, err)
		require.Len(t, segments, 4)
		assert.Equal(t, "users", segments[0].literal)
		assert.Equal(t, "id", segments[1].param)
		assert.Equal(t, "posts", segments[2].literal)
		assert.Equal(t, "post", segments[3].param)
	})

	t.Run("rejects missing leading slash", func(t *testing.T) {
		t.Parallel()

		_, err := compileTemplate("users")
		assert.ErrorIs(t, err, ErrInvalidTemplate)
	})

	t.Run("rejects empty parameter", func(t *testing.T) {
		t.Parallel()

		_, err := compileTemplate("/users/{}")
		assert.ErrorIs(t, err, ErrInvalidTemplate)
	})

	t.Run("rejects unbalanced braces", func(t *testing.T) {
		t.Parallel()

		_, err := compileTemplate("/users/{id")
		assert.ErrorIs(t, err, ErrInvalidTemplate)
	})
}

func TestRouteMatch(t *testing.T) {
	t.Parallel()

	newRoute := func(template string) *Route {
		segments, err := compileTemplate(template)
		require.NoError(t, err)

		return &Route{Template: template, segments: segments}
	}

	t.Run("literal match", func(t *testing.T) {
		t.Parallel()

		r := newRoute("/users")
		params, ok := r.match("/users")
		require.True(t, ok)
		assert.Empty(t, params)

		_, ok = r.match("/users/1")
		assert.False(t, ok)
	})

	t.Run("parameter extraction", func(t *testing.T) {
		t.Parallel()

		r := newRoute("/users/{id}/posts/{post}")
		params, ok := r.match("/users/7/posts/42")
		require.True(t, ok)
		assert.Equal(t, "7", params["id"])
		assert.Equal(t, "42", params["post"])
	})

	t.Run("empty segment never fills a parameter", func(t *testing.T) {
		t.Parallel()

		r := newRoute("/users/{id}")
		_, ok := r.match("/users/")
		assert.False(t, ok)
	})

	t.Run("root template", func(t *testing.T) {
		t.Parallel()

		r := newRoute("/")
		_, ok := r.match("/")
		assert.True(t, ok)

		_, ok = r.match("/x")
		assert.False(t, ok)
	})

	t.Run("segment count must agree", func(t *testing.T) {
		t.Parallel()

		r := newRoute("/a/{b}/c")
		_, ok := r.match("/a/x")
		assert.False(t, ok)
		_, ok = r.match("/a/x/c/d")
		assert.False(t, ok)
	})
}

func TestRouteRegistration(t *testing.T) {
	t.Parallel()

	t.Run("duplicate method and template panics", func(t *testing.T) {
		t.Parallel()

		app := MustNew()
		app.GET("/x", okHandler)
		assert.Panics(t, func() {
			app.GET("/x", okHandler)
		})
	})

	t.Run("same template under another method is fine", func(t *testing.T) {
		t.Parallel()

		app := MustNew()
		app.GET("/x", okHandler)
		assert.NotPanics(t, func() {
			app.POST("/x", okHandler)
		})
	})

	t.Run("unknown decision state panics", func(t *testing.T) {
		t.Parallel()

		app := MustNew()
		route := app.GET("/x", okHandler)
		assert.Panics(t, func() {
			route.Decide("no_such_state", Predicate(func(ctx *Context) (bool, error) {
				return true, nil
			}))
		})
	})

	t.Run("every graph state accepts a callback", func(t *testing.T) {
		t.Parallel()

		states := []string{
			"service_available", "known_method", "uri_too_long",
			"method_allowed", "malformed_request", "authorized", "forbidden",
			"content_headers_valid", "resource_exists",
			"resource_from_request", "if_match", "if_unmodified_since",
			"if_none_match", "if_modified_since", "content_types_provided",
			"content_types_accepted",
		}
		app := MustNew()
		route := app.POST("/x", okHandler)
		for _, name := range states {
			assert.NotPanics(t, func() {
				route.Decide(name, Predicate(func(ctx *Context) (bool, error) {
					return true, nil
				}))
			}, name)
		}
	})
}
