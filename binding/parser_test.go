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

package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRegistryParse(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	t.Run("json object", func(t *testing.T) {
		t.Parallel()

		v, err := r.Parse("application/json", []byte(`{"name":"ada","age":36}`))
		require.NoError(t, err)
		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ada", m["name"])
	})

	t.Run("content type params stripped", func(t *testing.T) {
		t.Parallel()

		v, err := r.Parse("application/json; charset=utf-8", []byte(`{"ok":true}`))
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		v, err := r.Parse("application/yaml", []byte("name: ada\nage: 36\n"))
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("toml", func(t *testing.T) {
		t.Parallel()

		v, err := r.Parse("application/toml", []byte("name = \"ada\"\n"))
		require.NoError(t, err)
		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ada", m["name"])
	})

	t.Run("msgpack", func(t *testing.T) {
		t.Parallel()

		data, err := msgpack.Marshal(map[string]any{"name": "ada"})
		require.NoError(t, err)

		v, err := r.Parse("application/msgpack", data)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("unregistered content type is 415", func(t *testing.T) {
		t.Parallel()

		_, err := r.Parse("application/xml", []byte("<x/>"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)

		var ue *UnsupportedMediaTypeError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, 415, ue.HTTPStatus())
	})

	t.Run("malformed body is 422 with decoder message", func(t *testing.T) {
		t.Parallel()

		_, err := r.Parse("application/json", []byte(`{"broken`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedBody)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 422, pe.HTTPStatus())
		assert.Contains(t, pe.Error(), "application/json")
	})

	t.Run("custom parser registration", func(t *testing.T) {
		t.Parallel()

		local := NewRegistry()
		local.Register("text/csv", func(data []byte) (any, error) {
			return string(data), nil
		})

		v, err := local.Parse("text/csv; header=present", []byte("a,b"))
		require.NoError(t, err)
		assert.Equal(t, "a,b", v)
	})
}
