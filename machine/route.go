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
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/restmachine-dev/restmachine/deps"
	"github.com/restmachine-dev/restmachine/render"
)

// Handler is a route's terminal function. Its return value is validated
// against the route's declared model (if any) and rendered by the
// negotiated renderer. Returning nil yields 204 No Content.
type Handler func(ctx *Context) (any, error)

// ETagFunc generates the resource's current entity tag for conditional
// request evaluation. The raw value is quoted by the machine; weak marks it
// W/-prefixed.
type ETagFunc func(ctx *Context) (value string, weak bool, err error)

// LastModifiedFunc generates the resource's current modification time for
// conditional request evaluation.
type LastModifiedFunc func(ctx *Context) (time.Time, error)

// HeaderFunc decorates the outgoing header set once the request has passed
// every decision state. Decorators run in registration order, route-level
// before application-wide, and each name runs at most once: a route
// decorator suppresses an application-wide decorator of the same name.
type HeaderFunc func(ctx *Context, headers http.Header) error

// namedHeaderFunc pairs a decorator with the name it deduplicates under.
type namedHeaderFunc struct {
	name string
	fn   HeaderFunc
}

// Route binds a method and path template to a handler, together with its
// decision callbacks, dependency providers, renderer overrides, and
// conditional-request generators. Routes are built through the
// Application's method helpers and configured by chaining.
type Route struct {
	// Method is the HTTP method this route serves.
	Method string

	// Template is the registered path template ("/users/{id}").
	Template string

	// Handler runs when every decision state passes.
	Handler Handler

	segments  []segment
	callbacks map[string]Callback
	renderers []render.Renderer
	providers map[string]deps.Provider
	headerFns []namedHeaderFunc
	etagFn    ETagFunc
	lastModFn LastModifiedFunc
	returns   any
	accepts   any
}

// segment is one compiled element of a path template: a literal to match
// exactly, or a parameter capturing the path segment under its name.
type segment struct {
	literal string
	param   string
}

// compileTemplate splits a template into segments. Parameters are single
// path segments written {name}.
func compileTemplate(template string) ([]segment, error) {
	if template == "" || template[0] != '/' {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidTemplate, template)
	}

	parts := strings.Split(strings.TrimPrefix(template, "/"), "/")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter in %q", ErrInvalidTemplate, template)
			}
			segments = append(segments, segment{param: name})
			continue
		}
		if strings.ContainsAny(part, "{}") {
			return nil, fmt.Errorf("%w: unbalanced braces in %q", ErrInvalidTemplate, template)
		}
		segments = append(segments, segment{literal: part})
	}

	return segments, nil
}

// match tests a request path against the compiled template, returning
// extracted parameters on success.
func (r *Route) match(path string) (map[string]string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	var parts []string
	if trimmed != "" || len(r.segments) > 1 || r.segments[0].literal != "" {
		parts = strings.Split(trimmed, "/")
	} else {
		parts = []string{""}
	}
	if len(parts) != len(r.segments) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range r.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 2)
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	if params == nil {
		params = map[string]string{}
	}

	return params, true
}

// Decide registers a decision callback override for one state on this
// route. Registering under an unknown state name panics at setup, the same
// way a malformed template does.
func (r *Route) Decide(state string, cb Callback) *Route {
	if _, ok := decisionStates[state]; !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownCallbackState, state))
	}
	r.callbacks[state] = cb

	return r
}

// Guard is shorthand for Decide(state, Guard(name, fn)): the guard's value
// decides the state and is cached under name for the handler.
func (r *Route) Guard(state, name string, fn GuardFunc) *Route {
	return r.Decide(state, Guard(name, fn))
}

// Provide registers a named dependency provider scoped to this route.
// Route providers shadow application-wide providers of the same name.
func (r *Route) Provide(name string, p deps.Provider) *Route {
	r.providers[name] = p

	return r
}

// Renders adds a renderer override. The media type must also be registered
// in the application's global registry to be eligible; overrides only
// reorder preference, they cannot introduce unregistered types.
func (r *Route) Renders(mediaType string) *Route {
	r.renderers = append(r.renderers, render.Renderer{MediaType: mediaType})

	return r
}

// Headers registers a named outgoing-header decorator on this route. It
// runs before application-wide decorators and suppresses any
// application-wide decorator registered under the same name.
func (r *Route) Headers(name string, fn HeaderFunc) *Route {
	r.headerFns = append(r.headerFns, namedHeaderFunc{name: name, fn: fn})

	return r
}

// ETag declares the route's entity-tag generator, enabling conditional
// request evaluation for it.
func (r *Route) ETag(fn ETagFunc) *Route {
	r.etagFn = fn

	return r
}

// LastModified declares the route's modification-time generator, enabling
// conditional request evaluation for it.
func (r *Route) LastModified(fn LastModifiedFunc) *Route {
	r.lastModFn = fn

	return r
}

// Returns declares the handler's return model. Non-Response, non-nil
// handler results are decoded into this type and validated before
// rendering; failures surface as 422 with field details.
func (r *Route) Returns(prototype any) *Route {
	r.returns = prototype

	return r
}

// Accepts declares the request body model. When set, the body is parsed
// per Content-Type, decoded into this type, validated, and exposed as the
// "body" dependency.
func (r *Route) Accepts(prototype any) *Route {
	r.accepts = prototype

	return r
}

// conditionalDeclared reports whether the route opts into conditional
// request evaluation by declaring a generator.
func (r *Route) conditionalDeclared() bool {
	return r.etagFn != nil || r.lastModFn != nil
}
