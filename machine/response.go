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
	"strconv"
	"strings"
	"time"

	"github.com/restmachine-dev/restmachine/header"
)

// Response is the in-process response value the machine produces.
// Adapters translate it onto their transport.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Headers carries the response headers. Never nil on a Response built
	// through NewResponse or returned by Process.
	Headers http.Header

	// Body is the response body bytes. Empty for 204.
	Body []byte
}

// NewResponse creates a Response with the given status and empty headers.
func NewResponse(status int) *Response {
	return &Response{
		Status:  status,
		Headers: http.Header{},
	}
}

// SetHeader sets a header, replacing any existing values.
func (r *Response) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = http.Header{}
	}
	r.Headers.Set(name, value)
}

// SetETag sets the ETag header from a raw value. The value is quoted, and
// weak adds the W/ prefix: SetETag("v1", false) yields `"v1"`,
// SetETag("v1", true) yields `W/"v1"`.
func (r *Response) SetETag(value string, weak bool) {
	r.SetHeader("ETag", header.FormatETag(value, weak))
}

// ETag returns the current ETag header value, or "".
func (r *Response) ETag() string {
	if r.Headers == nil {
		return ""
	}

	return r.Headers.Get("ETag")
}

// SetLastModified sets the Last-Modified header in IMF-fixdate format.
func (r *Response) SetLastModified(t time.Time) {
	r.SetHeader("Last-Modified", header.FormatHTTPDate(t))
}

// AddVary appends a field name to the Vary header, once.
func (r *Response) AddVary(field string) {
	if r.Headers == nil {
		r.Headers = http.Header{}
	}
	existing := r.Headers.Get("Vary")
	if existing == "" {
		r.Headers.Set("Vary", field)
		return
	}
	for _, f := range strings.Split(existing, ",") {
		if strings.EqualFold(strings.TrimSpace(f), field) {
			return
		}
	}
	r.Headers.Set("Vary", existing+", "+field)
}

// finalize fixes up framing headers before the Response leaves the machine:
// every status except 204 carries a Content-Length equal to the exact byte
// length of the body, and 204 carries no body at all.
func (r *Response) finalize() *Response {
	if r.Headers == nil {
		r.Headers = http.Header{}
	}
	if r.Status == http.StatusNoContent {
		r.Body = nil
		r.Headers.Del("Content-Length")

		return r
	}
	r.Headers.Set("Content-Length", strconv.Itoa(len(r.Body)))

	return r
}
