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
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/restmachine-dev/restmachine/deps"
	resterrors "github.com/restmachine-dev/restmachine/errors"
	"github.com/restmachine-dev/restmachine/render"
)

// state identifies one node of the fixed decision graph. Order is the
// graph's topology: a passing state advances to the next, with two jumps
// (POST past a missing resource, and skipping the conditional block when
// nothing requests it).
type state int

const (
	stateRouteExists state = iota
	stateServiceAvailable
	stateKnownMethod
	stateURITooLong
	stateMethodAllowed
	stateMalformedRequest
	stateAuthorized
	stateForbidden
	stateContentHeadersValid
	stateResourceExists
	stateIfMatch
	stateIfUnmodifiedSince
	stateIfNoneMatch
	stateIfModifiedSince
	stateContentTypesProvided
	stateContentTypesAccepted
	stateExecuteAndRender
)

var stateNames = [...]string{
	"route_exists",
	"service_available",
	"known_method",
	"uri_too_long",
	"method_allowed",
	"malformed_request",
	"authorized",
	"forbidden",
	"content_headers_valid",
	"resource_exists",
	"if_match",
	"if_unmodified_since",
	"if_none_match",
	"if_modified_since",
	"content_types_provided",
	"content_types_accepted",
	"execute_and_render",
}

func (s state) String() string {
	return stateNames[s]
}

// maxTransitions bounds the number of state transitions per request. The
// graph is far shallower than this; hitting the cap means a wiring bug,
// answered with a 500 rather than an endless loop.
const maxTransitions = 50

// processor carries one request's walk through the graph.
type processor struct {
	app      *Application
	ctx      *Context
	req      *Request
	resolver *deps.Resolver

	renderer render.Renderer

	// conditional-request state, computed lazily by currentETag and
	// currentLastModified
	etag        string
	etagLoaded  bool
	lastMod     time.Time
	lastModSet  bool
	lastModDone bool

	// streamable marks a raw []byte or io.Reader handler result, the only
	// body kinds Range requests apply to
	streamable bool

	varyAuth bool
}

// Process runs one request through the decision graph and always returns
// a Response: the handler's rendered result, a conditional short-circuit,
// or an error response. It never panics a caller for anything a callback
// or handler does.
func (a *Application) Process(req *Request) *Response {
	a.session.ClearRequest()

	resolver := deps.NewResolver(a.session)
	resolver.Register(deps.NameRequest, func() (any, error) {
		return req, nil
	})
	resolver.Register(deps.NameHeaders, func() (any, error) {
		return req.Headers, nil
	})
	resolver.Register(deps.NameRequestID, func() (any, error) {
		return deps.NewRequestID(), nil
	})
	resolver.Register(deps.NameTraceID, func() (any, error) {
		return deps.NewTraceID(req.Header("traceparent")), nil
	})
	for name, provider := range a.providers {
		resolver.Register(name, provider)
	}

	logger := a.logger
	if rid, err := resolver.Resolve(deps.NameRequestID); err == nil {
		if s, ok := rid.(string); ok {
			logger = logger.With(slog.String("request_id", s))
		}
	}

	p := &processor{
		app:      a,
		req:      req,
		resolver: resolver,
		ctx: &Context{
			request:  req,
			resolver: resolver,
			logger:   logger,
		},
	}

	st := stateRouteExists
	for range maxTransitions {
		next, resp, err := p.step(st)
		if err != nil {
			return p.errorResponse(err)
		}
		if resp != nil {
			return resp.finalize()
		}
		st = next
	}

	logger.Error("transition limit exceeded", slog.String("state", st.String()))

	return p.buildError(http.StatusInternalServerError, ErrTransitionLimit.Error(), nil)
}

// step executes a single state.
func (p *processor) step(st state) (state, *Response, error) {
	switch st {
	case stateRouteExists:
		return p.routeExists()
	case stateServiceAvailable:
		return p.simpleDecision(st, stateKnownMethod, http.StatusServiceUnavailable)
	case stateKnownMethod:
		if pass, resp, err, ok := p.overrideDecision("known_method"); ok {
			if err != nil || resp != nil {
				return 0, resp, err
			}
			if !pass {
				return 0, p.failResponse(http.StatusNotImplemented), nil
			}

			return stateURITooLong, nil, nil
		}
		if !knownMethod(p.req.Method) {
			return 0, p.failResponse(http.StatusNotImplemented), nil
		}

		return stateURITooLong, nil, nil
	case stateURITooLong:
		if pass, resp, err, ok := p.overrideDecision("uri_too_long"); ok {
			if err != nil || resp != nil {
				return 0, resp, err
			}
			if !pass {
				return 0, p.failResponse(http.StatusRequestURITooLong), nil
			}

			return stateMethodAllowed, nil, nil
		}
		if len(p.req.Path) > p.app.maxURILength {
			return 0, p.failResponse(http.StatusRequestURITooLong), nil
		}

		return stateMethodAllowed, nil, nil
	case stateMethodAllowed:
		return p.simpleDecision(st, stateMalformedRequest, http.StatusMethodNotAllowed)
	case stateMalformedRequest:
		return p.simpleDecision(st, stateAuthorized, http.StatusBadRequest)
	case stateAuthorized:
		// The response varies on credentials whenever the request carries
		// them, whether or not an authorized callback is registered.
		p.varyAuth = p.req.HasHeader("Authorization")

		return p.simpleDecision(st, stateForbidden, http.StatusUnauthorized)
	case stateForbidden:
		return p.simpleDecision(st, stateContentHeadersValid, http.StatusForbidden)
	case stateContentHeadersValid:
		return p.simpleDecision(st, stateResourceExists, http.StatusBadRequest)
	case stateResourceExists:
		return p.resourceExists()
	case stateIfMatch:
		return p.ifMatch()
	case stateIfUnmodifiedSince:
		return p.ifUnmodifiedSince()
	case stateIfNoneMatch:
		return p.ifNoneMatch()
	case stateIfModifiedSince:
		return p.ifModifiedSince()
	case stateContentTypesProvided:
		return p.contentTypesProvided()
	case stateContentTypesAccepted:
		return p.contentTypesAccepted()
	case stateExecuteAndRender:
		resp, err := p.execute()

		return 0, resp, err
	default:
		return 0, nil, ErrTransitionLimit
	}
}

// routeExists is structural: match the route table, answering 405 when a
// path matches under a different method and 404 (via the route_not_found
// hook, when registered) when nothing matches. An unknown method on a
// registered path is 501, not 405: no route table could ever serve it, so
// the known_method outcome takes precedence over the mismatch.
func (p *processor) routeExists() (state, *Response, error) {
	route, params, methodMismatch := p.app.matchRoute(p.req.Method, p.req.Path)
	if route == nil {
		if methodMismatch {
			if !knownMethod(p.req.Method) {
				return 0, p.failResponse(http.StatusNotImplemented), nil
			}
			resp := p.failResponse(http.StatusMethodNotAllowed)
			resp.SetHeader("Allow", strings.Join(p.app.allowedMethods(p.req.Path), ", "))

			return 0, resp, nil
		}
		if cb, ok := p.app.defaults["route_not_found"]; ok {
			if fn, isResp := cb.(ResponseFunc); isResp {
				resp, err := fn(p.ctx)
				if err != nil {
					return 0, nil, err
				}
				if resp != nil {
					return 0, resp, nil
				}
			}
		}

		return 0, p.failResponse(http.StatusNotFound), nil
	}

	p.req.PathParams = params
	p.ctx.route = route
	for name, provider := range route.providers {
		p.resolver.Register(name, provider)
	}
	p.resolver.Register("body", p.bodyProvider(route))

	return stateServiceAvailable, nil, nil
}

// resourceExists evaluates the resource-existence decision. A failing
// check is a 404 for every method except POST, which hands off to
// resourceFromRequest so the missing resource can be synthesized or
// created by the handler.
func (p *processor) resourceExists() (state, *Response, error) {
	pass, resp, err := p.evaluate("resource_exists")
	if err != nil || resp != nil {
		return 0, resp, err
	}
	if !pass {
		if p.req.Method == http.MethodPost {
			return p.resourceFromRequest()
		}

		return 0, p.failResponse(http.StatusNotFound), nil
	}

	if p.conditionalRequested() {
		return stateIfMatch, nil, nil
	}

	return stateContentTypesProvided, nil, nil
}

// resourceFromRequest handles a POST whose resource check failed. A
// registered resource_from_request callback synthesizes the resource from
// request data; an absent result is a 400, since the request itself could
// not produce one. With no callback, processing continues to content
// negotiation and the handler is expected to create the resource.
func (p *processor) resourceFromRequest() (state, *Response, error) {
	pass, resp, err, registered := p.overrideDecision("resource_from_request")
	if !registered {
		return stateContentTypesProvided, nil, nil
	}
	if err != nil || resp != nil {
		return 0, resp, err
	}
	if !pass {
		return 0, p.failResponse(http.StatusBadRequest), nil
	}

	return stateContentTypesProvided, nil, nil
}

// conditionalRequested reports whether steps 11-14 apply: the route
// declares a generator, or the request carries a conditional header.
func (p *processor) conditionalRequested() bool {
	if p.ctx.route != nil && p.ctx.route.conditionalDeclared() {
		return true
	}
	for _, h := range [...]string{"If-Match", "If-None-Match", "If-Modified-Since", "If-Unmodified-Since"} {
		if p.req.HasHeader(h) {
			return true
		}
	}

	return false
}

// simpleDecision evaluates a pass-by-default state whose only failure
// outcome is its owned status code.
func (p *processor) simpleDecision(st state, next state, failStatus int) (state, *Response, error) {
	pass, resp, err := p.evaluate(st.String())
	if err != nil || resp != nil {
		return 0, resp, err
	}
	if !pass {
		return 0, p.failResponse(failStatus), nil
	}

	return next, nil, nil
}

// overrideDecision consults the two-tier callback for a state that has its
// own built-in policy. registered reports whether any callback exists; when
// it is false the caller applies the built-in policy instead.
func (p *processor) overrideDecision(stateName string) (pass bool, resp *Response, err error, registered bool) {
	if p.app.resolveCallback(p.ctx.route, stateName) == nil {
		return false, nil, nil, false
	}
	pass, resp, err = p.evaluate(stateName)

	return pass, resp, err, true
}

// evaluate runs the two-tier callback for a state name. No callback means
// pass. The three callback kinds map onto the three outcomes: Predicate
// to pass/fail, guards to fail-on-nil with the value cached, ResponseFunc
// to an immediate terminal Response.
func (p *processor) evaluate(stateName string) (pass bool, resp *Response, err error) {
	cb := p.app.resolveCallback(p.ctx.route, stateName)
	if cb == nil {
		return true, nil, nil
	}

	switch fn := cb.(type) {
	case Predicate:
		ok, err := fn(p.ctx)

		return ok, nil, err
	case ResponseFunc:
		r, err := fn(p.ctx)
		if err != nil {
			return false, nil, err
		}
		if r != nil {
			return false, r, nil
		}

		return true, nil, nil
	case GuardFunc:
		return p.runGuard(stateName, fn)
	case guard:
		return p.runGuard(fn.name, fn.fn)
	default:
		return true, nil, nil
	}
}

// runGuard executes a guard: a nil value fails the state, a non-nil value
// passes and is cached under name for later resolution.
func (p *processor) runGuard(name string, fn GuardFunc) (bool, *Response, error) {
	value, err := fn(p.ctx)
	if err != nil {
		return false, nil, err
	}
	if value == nil {
		return false, nil, nil
	}
	p.resolver.Store(name, value)

	return true, nil, nil
}

// failResponse answers a decision-state failure with its owned status.
func (p *processor) failResponse(status int) *Response {
	p.resolver.Store(deps.NameException, resterrors.New(status, http.StatusText(status)))

	return p.buildError(status, http.StatusText(status), nil)
}

// errorResponse maps a Go error from a callback, parser, validator, or
// handler onto its status class: typed errors carry their own status and
// details, anything untyped is an application failure (500) carrying the
// error's string form.
func (p *processor) errorResponse(err error) *Response {
	p.resolver.Store(deps.NameException, err)

	status := resterrors.StatusOf(err)
	var details any
	var detailed resterrors.ErrorDetails
	if errors.As(err, &detailed) {
		details = detailed.Details()
	}

	if status == http.StatusInternalServerError {
		p.ctx.logger.Error("request failed", slog.String("error", err.Error()))
	}

	return p.buildError(status, err.Error(), details)
}

// buildError renders an error body through the builder (custom handlers
// first, negotiated default otherwise) and finalizes framing.
func (p *processor) buildError(status int, message string, details any) *Response {
	built := p.app.builder.Build(resterrors.BuildInput{
		Accept:  p.req.Header("Accept"),
		Status:  status,
		Message: message,
		Details: details,
		Lookup:  p.resolver.Resolve,
	})

	resp := NewResponse(built.Status)
	for name, values := range built.Headers {
		for _, v := range values {
			resp.Headers.Add(name, v)
		}
	}
	resp.SetHeader("Content-Type", built.ContentType)
	resp.Body = built.Body

	return resp.finalize()
}
