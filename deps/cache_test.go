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

package deps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheScopes(t *testing.T) {
	t.Parallel()

	t.Run("request scope cleared, session survives", func(t *testing.T) {
		t.Parallel()

		c := NewCache()
		c.Set("per_request", 1)
		c.SetSession("long_lived", 2)

		c.ClearRequest()

		_, ok := c.Get("per_request")
		assert.False(t, ok)

		v, ok := c.Get("long_lived")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("persistent entries re-inserted after clear", func(t *testing.T) {
		t.Parallel()

		c := NewCache()
		c.Persist("metrics", "sink")

		for range 3 {
			c.ClearRequest()
			v, ok := c.Get("metrics")
			require.True(t, ok)
			assert.Equal(t, "sink", v)
		}
	})

	t.Run("request scope shadows session", func(t *testing.T) {
		t.Parallel()

		c := NewCache()
		c.SetSession("name", "session")
		c.Set("name", "request")

		v, _ := c.Get("name")
		assert.Equal(t, "request", v)

		c.ClearRequest()
		v, _ = c.Get("name")
		assert.Equal(t, "session", v)
	})
}

func TestResolver(t *testing.T) {
	t.Parallel()

	t.Run("memoizes provider result", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(NewCache())
		calls := 0
		r.Register("expensive", func() (any, error) {
			calls++
			return "value", nil
		})

		for range 3 {
			v, err := r.Resolve("expensive")
			require.NoError(t, err)
			assert.Equal(t, "value", v)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("unknown name wraps ErrUnresolvable", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(NewCache())
		_, err := r.Resolve("missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnresolvable)
	})

	t.Run("provider errors are not memoized", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(NewCache())
		calls := 0
		r.Register("flaky", func() (any, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("boom")
			}
			return "ok", nil
		})

		_, err := r.Resolve("flaky")
		require.Error(t, err)

		v, err := r.Resolve("flaky")
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
		assert.Equal(t, 2, calls)
	})

	t.Run("later registration overrides", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(NewCache())
		r.Register("who", func() (any, error) { return "global", nil })
		r.Register("who", func() (any, error) { return "route", nil })

		v, err := r.Resolve("who")
		require.NoError(t, err)
		assert.Equal(t, "route", v)
	})
}

func TestBuiltins(t *testing.T) {
	t.Parallel()

	t.Run("request id is unique", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, NewRequestID(), NewRequestID())
	})

	t.Run("traceparent extraction", func(t *testing.T) {
		t.Parallel()

		id := TraceIDFromTraceparent("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", id)

		assert.Empty(t, TraceIDFromTraceparent(""))
		assert.Empty(t, TraceIDFromTraceparent("garbage"))
		assert.Empty(t, TraceIDFromTraceparent("00-00000000000000000000000000000000-0000000000000000-00"))
	})

	t.Run("trace id falls back to generated", func(t *testing.T) {
		t.Parallel()

		assert.NotEmpty(t, NewTraceID(""))
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736",
			NewTraceID("00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"))
	})
}
