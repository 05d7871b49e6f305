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

// Callback is a pluggable decision point. The three concrete kinds are
// Predicate (pass/fail), GuardFunc (a value that doubles as the decision:
// nil fails the state, non-nil passes and is cached as a dependency), and
// ResponseFunc (may short-circuit with a complete Response). The set is
// closed; the state machine switches over it exhaustively.
type Callback interface {
	isCallback()
}

// Predicate decides a state with a boolean: false fails the state with its
// owned status code. An error is an application failure (500), not a
// decision.
type Predicate func(ctx *Context) (bool, error)

func (Predicate) isCallback() {}

// ResponseFunc may resolve a state with a full Response. Returning nil
// passes the state. Used for route_not_found and anywhere a decision wants
// to dictate the complete outcome.
type ResponseFunc func(ctx *Context) (*Response, error)

func (ResponseFunc) isCallback() {}

// GuardFunc produces a value whose presence is the decision: nil fails the
// state, non-nil passes. The value is cached under the guard's registered
// dependency name, so the handler resolves the same value without
// recomputation.
type GuardFunc func(ctx *Context) (any, error)

func (GuardFunc) isCallback() {}

// guard pairs a GuardFunc with the dependency name its result is cached
// under.
type guard struct {
	name string
	fn   GuardFunc
}

func (guard) isCallback() {}

// Guard builds a guard callback caching its result under name.
//
// Example:
//
//	app.GET("/users/{id}", show).
//		Decide("resource_exists", machine.Guard("user", loadUser))
func Guard(name string, fn GuardFunc) Callback {
	return guard{name: name, fn: fn}
}

// decisionStates is the set of state names callbacks may be registered
// under: every graph state between route matching and handler execution.
// route_not_found is the extra hook consulted when no route matches, and
// resource_from_request synthesizes a missing resource on POST. For states
// with a built-in policy (the conditional block and content negotiation), a
// registered callback replaces that policy.
var decisionStates = map[string]struct{}{
	"route_not_found":        {},
	"service_available":      {},
	"known_method":           {},
	"uri_too_long":           {},
	"method_allowed":         {},
	"malformed_request":      {},
	"authorized":             {},
	"forbidden":              {},
	"content_headers_valid":  {},
	"resource_exists":        {},
	"resource_from_request":  {},
	"if_match":               {},
	"if_unmodified_since":    {},
	"if_none_match":          {},
	"if_modified_since":      {},
	"content_types_provided": {},
	"content_types_accepted": {},
}

// resolveCallback performs the two-tier lookup for a state: the matched
// route's override first, then the application-wide default. A nil return
// means no callback is registered and the state's built-in policy applies.
// Re-run per request; never cached across routes.
func (a *Application) resolveCallback(route *Route, state string) Callback {
	if route != nil {
		if cb, ok := route.callbacks[state]; ok {
			return cb
		}
	}
	if cb, ok := a.defaults[state]; ok {
		return cb
	}

	return nil
}
