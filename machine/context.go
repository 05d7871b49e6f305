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
	"log/slog"

	"github.com/restmachine-dev/restmachine/deps"
)

// Context carries one request's state through decision callbacks and the
// handler: the request itself, the matched route, the dependency resolver,
// and a request-scoped logger. A Context is valid only for the duration of
// the Process call that created it.
type Context struct {
	request  *Request
	route    *Route
	resolver *deps.Resolver
	logger   *slog.Logger
}

// Request returns the request being processed.
func (c *Context) Request() *Request {
	return c.request
}

// Route returns the matched route, or nil before route matching succeeds
// (as seen by a route_not_found callback).
func (c *Context) Route() *Route {
	return c.route
}

// Logger returns the request-scoped logger, annotated with the request id.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Resolve resolves a named dependency: built-ins like "request" and
// "request_id", the parsed "body", guard results, and anything registered
// through Provide. Results are memoized for the request.
func (c *Context) Resolve(name string) (any, error) {
	return c.resolver.Resolve(name)
}

// PathParam returns a path parameter extracted by route matching, or "".
func (c *Context) PathParam(name string) string {
	if c.request.PathParams == nil {
		return ""
	}

	return c.request.PathParams[name]
}

// QueryParam returns a query parameter, or "".
func (c *Context) QueryParam(name string) string {
	if c.request.Query == nil {
		return ""
	}

	return c.request.Query[name]
}

// Header returns a request header value, or "".
func (c *Context) Header(name string) string {
	return c.request.Header(name)
}

// Body returns the raw request body bytes.
func (c *Context) Body() []byte {
	return c.request.Body
}
