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
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseETag(t *testing.T) {
	t.Parallel()

	t.Run("strong etag is quoted", func(t *testing.T) {
		t.Parallel()

		resp := NewResponse(http.StatusOK)
		resp.SetETag("v", false)
		assert.Equal(t, `"v"`, resp.ETag())
	})

	t.Run("weak etag carries the prefix", func(t *testing.T) {
		t.Parallel()

		resp := NewResponse(http.StatusOK)
		resp.SetETag("v", true)
		assert.Equal(t, `W/"v"`, resp.ETag())
	})

	t.Run("identical values produce identical tags", func(t *testing.T) {
		t.Parallel()

		a := NewResponse(http.StatusOK)
		b := NewResponse(http.StatusOK)
		a.SetETag("content-hash", false)
		b.SetETag("content-hash", false)
		assert.Equal(t, a.ETag(), b.ETag())
	})
}

func TestResponseHeaders(t *testing.T) {
	t.Parallel()

	t.Run("last modified renders as imf-fixdate", func(t *testing.T) {
		t.Parallel()

		resp := NewResponse(http.StatusOK)
		resp.SetLastModified(time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC))
		assert.Equal(t, "Fri, 02 Jan 2026 15:04:05 GMT", resp.Headers.Get("Last-Modified"))
	})

	t.Run("vary appends without duplicates", func(t *testing.T) {
		t.Parallel()

		resp := NewResponse(http.StatusOK)
		resp.AddVary("Accept")
		resp.AddVary("Authorization")
		resp.AddVary("accept")
		assert.Equal(t, "Accept, Authorization", resp.Headers.Get("Vary"))
	})
}

func TestResponseFinalize(t *testing.T) {
	t.Parallel()

	t.Run("content length matches the body", func(t *testing.T) {
		t.Parallel()

		resp := NewResponse(http.StatusOK)
		resp.Body = []byte("héllo")
		resp.finalize()
		assert.Equal(t, "6", resp.Headers.Get("Content-Length"))
	})

	t.Run("204 drops body and framing", func(t *testing.T) {
		t.Parallel()

		resp := NewResponse(http.StatusNoContent)
		resp.Body = []byte("should vanish")
		resp.finalize()
		assert.Empty(t, resp.Body)
		assert.Empty(t, resp.Headers.Get("Content-Length"))
	})

	t.Run("finalize is idempotent", func(t *testing.T) {
		t.Parallel()

		resp := NewResponse(http.StatusOK)
		resp.Body = []byte("abc")
		resp.finalize()
		resp.finalize()
		assert.Equal(t, "3", resp.Headers.Get("Content-Length"))
	})
}
