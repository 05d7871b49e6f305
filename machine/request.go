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

import "net/http"

// Request is the in-process request value the machine operates on.
// Adapters construct one from their transport's representation.
//
// A Request is treated as immutable during processing, except PathParams,
// which is populated once when a route match is found.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH, OPTIONS).
	Method string

	// Path is the request path ("/users/1").
	Path string

	// Headers carries the request headers. May be nil.
	Headers http.Header

	// Body is the raw request body. Nil or empty means no body.
	Body []byte

	// Query holds decoded query parameters. May be nil.
	Query map[string]string

	// PathParams holds parameters extracted from the matched route's
	// template. Set by route matching; nil before a match.
	PathParams map[string]string
}

// Header returns the first value for a header name, or "" when absent.
// Safe on a Request with nil Headers.
func (r *Request) Header(name string) string {
	if r.Headers == nil {
		return ""
	}

	return r.Headers.Get(name)
}

// HasHeader reports whether the header is present, even with an empty value.
func (r *Request) HasHeader(name string) bool {
	if r.Headers == nil {
		return false
	}
	_, ok := r.Headers[http.CanonicalHeaderKey(name)]

	return ok
}

// knownMethods is the closed set the known_method state accepts by default.
var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodDelete:  {},
	http.MethodPatch:   {},
	http.MethodOptions: {},
}

// knownMethod reports whether the request method is in the supported set.
func knownMethod(method string) bool {
	_, ok := knownMethods[method]

	return ok
}
