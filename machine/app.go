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
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/restmachine-dev/restmachine/binding"
	"github.com/restmachine-dev/restmachine/deps"
	resterrors "github.com/restmachine-dev/restmachine/errors"
	"github.com/restmachine-dev/restmachine/render"
	"github.com/restmachine-dev/restmachine/validation"
)

// defaultMaxURILength is the uri_too_long threshold in bytes.
const defaultMaxURILength = 2048

// Application owns the route table, the application-wide decision
// defaults, and the registries a request is processed against. Configure
// it fully before serving; the route table and registries are read-only
// during processing. Process itself is synchronous and may be called from
// multiple goroutines only if the session dependency scope is treated as
// append-only (see deps.Cache).
type Application struct {
	routes        []*Route
	defaults      map[string]Callback
	providers     map[string]deps.Provider
	headerFns     []namedHeaderFunc
	renderers     *render.Registry
	parsers       *binding.Registry
	validator     *validation.Validator
	errorHandlers *resterrors.Registry
	builder       *resterrors.Builder
	session       *deps.Cache
	logger        *slog.Logger
	maxURILength  int
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the logger for request processing. Defaults to a no-op
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Application) {
		a.logger = l
	}
}

// WithRenderers replaces the global renderer registry.
func WithRenderers(r *render.Registry) Option {
	return func(a *Application) {
		a.renderers = r
	}
}

// WithParsers replaces the body parser registry.
func WithParsers(r *binding.Registry) Option {
	return func(a *Application) {
		a.parsers = r
	}
}

// WithMaxURILength sets the uri_too_long threshold in bytes.
func WithMaxURILength(n int) Option {
	return func(a *Application) {
		a.maxURILength = n
	}
}

// New creates an Application with the default registries: JSON/HTML/text
// renderers, JSON/YAML/TOML/MessagePack body parsers, and an empty route
// table.
func New(opts ...Option) (*Application, error) {
	a := &Application{
		defaults:      make(map[string]Callback),
		providers:     make(map[string]deps.Provider),
		renderers:     render.NewRegistry(),
		parsers:       binding.NewRegistry(),
		validator:     validation.New(),
		errorHandlers: resterrors.NewRegistry(),
		session:       deps.NewCache(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxURILength:  defaultMaxURILength,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxURILength <= 0 {
		return nil, fmt.Errorf("max URI length must be positive, got %d", a.maxURILength)
	}
	a.builder = resterrors.NewBuilder(
		resterrors.WithRegistry(a.errorHandlers),
		resterrors.WithLogger(a.logger),
	)

	return a, nil
}

// MustNew is New, panicking on configuration errors.
func MustNew(opts ...Option) *Application {
	a, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return a
}

// Route registers a route. It panics on a malformed template or a
// duplicate method+template pair; registration happens at setup where a
// panic is a configuration error, not a runtime hazard.
func (a *Application) Route(method, template string, handler Handler) *Route {
	segments, err := compileTemplate(template)
	if err != nil {
		panic(err)
	}
	for _, existing := range a.routes {
		if existing.Method == method && existing.Template == template {
			panic(fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, template))
		}
	}

	r := &Route{
		Method:    method,
		Template:  template,
		Handler:   handler,
		segments:  segments,
		callbacks: make(map[string]Callback),
		providers: make(map[string]deps.Provider),
	}
	a.routes = append(a.routes, r)

	return r
}

// GET registers a GET route.
func (a *Application) GET(template string, handler Handler) *Route {
	return a.Route(http.MethodGet, template, handler)
}

// POST registers a POST route.
func (a *Application) POST(template string, handler Handler) *Route {
	return a.Route(http.MethodPost, template, handler)
}

// PUT registers a PUT route.
func (a *Application) PUT(template string, handler Handler) *Route {
	return a.Route(http.MethodPut, template, handler)
}

// DELETE registers a DELETE route.
func (a *Application) DELETE(template string, handler Handler) *Route {
	return a.Route(http.MethodDelete, template, handler)
}

// PATCH registers a PATCH route.
func (a *Application) PATCH(template string, handler Handler) *Route {
	return a.Route(http.MethodPatch, template, handler)
}

// OPTIONS registers an OPTIONS route.
func (a *Application) OPTIONS(template string, handler Handler) *Route {
	return a.Route(http.MethodOptions, template, handler)
}

// Decide registers an application-wide default decision callback for a
// state. Route-level callbacks registered under the same state win.
func (a *Application) Decide(state string, cb Callback) *Application {
	if _, ok := decisionStates[state]; !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownCallbackState, state))
	}
	a.defaults[state] = cb

	return a
}

// NotFound sets the callback consulted when no route matches the request
// path. It may produce a complete Response; returning nil falls back to
// the default 404.
func (a *Application) NotFound(fn ResponseFunc) *Application {
	return a.Decide("route_not_found", fn)
}

// Provide registers an application-wide dependency provider. Route
// providers of the same name shadow it.
func (a *Application) Provide(name string, p deps.Provider) *Application {
	a.providers[name] = p

	return a
}

// Headers registers an application-wide outgoing-header decorator. It runs
// after route-level decorators and is skipped for routes that register a
// decorator under the same name.
func (a *Application) Headers(name string, fn HeaderFunc) *Application {
	a.headerFns = append(a.headerFns, namedHeaderFunc{name: name, fn: fn})

	return a
}

// OnError registers a custom error handler consulted by the error
// response builder before its default body.
func (a *Application) OnError(d resterrors.Descriptor) *Application {
	a.errorHandlers.Register(d)

	return a
}

// Persist stores a session-scoped dependency that survives the
// per-request cache clear. Hosting adapters use it for long-lived
// resources such as metrics sinks.
func (a *Application) Persist(name string, value any) {
	a.session.Persist(name, value)
}

// Session exposes the session dependency cache.
func (a *Application) Session() *deps.Cache {
	return a.session
}

// matchRoute scans the route table in registration order for the first
// route matching method and path. When a path matches under a different
// method the mismatch is reported so route_exists can answer 405 rather
// than 404.
func (a *Application) matchRoute(method, path string) (route *Route, params map[string]string, methodMismatch bool) {
	for _, r := range a.routes {
		p, ok := r.match(path)
		if !ok {
			continue
		}
		if r.Method != method {
			methodMismatch = true
			continue
		}

		return r, p, false
	}

	return nil, nil, methodMismatch
}

// allowedMethods returns the sorted set of methods registered for routes
// matching path, for the Allow header on a 405.
func (a *Application) allowedMethods(path string) []string {
	var methods []string
	for _, r := range a.routes {
		if _, ok := r.match(path); !ok {
			continue
		}
		if !slices.Contains(methods, r.Method) {
			methods = append(methods, r.Method)
		}
	}
	slices.Sort(methods)

	return methods
}
