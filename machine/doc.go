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

// Package machine executes HTTP requests through a fixed graph of decision
// states, in the style of webmachine.
//
// Each request walks an ordered sequence of checks: route matching, service
// availability, method validation, authorization, content-header validation,
// resource existence, conditional-request evaluation (If-Match,
// If-Unmodified-Since, If-None-Match, If-Modified-Since), and content
// negotiation. The first failing check short-circuits to an error response
// with the status that state owns; when every check passes, the matched
// handler runs and its result is validated and rendered.
//
// Individual decision points are pluggable per route or application-wide,
// but the graph's topology is fixed. Processing is synchronous: one request
// runs to completion before Process returns, and a Response is always
// produced, whatever a callback or handler does.
//
// # Quick Start
//
//	app := machine.MustNew()
//	app.GET("/users/{id}", func(ctx *machine.Context) (any, error) {
//		return store.Load(ctx.PathParam("id"))
//	})
//
//	resp := app.Process(&machine.Request{
//		Method:  http.MethodGet,
//		Path:    "/users/1",
//		Headers: http.Header{},
//	})
//
// Routes take decision callbacks, dependency providers, renderer overrides,
// and conditional-request generators through chained methods:
//
//	app.GET("/users/{id}", showUser).
//		Guard("resource_exists", "user", loadUser).
//		ETag(userETag).
//		Returns(User{})
package machine
