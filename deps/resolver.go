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

package deps

import (
	"errors"
	"fmt"
)

// Reserved dependency names recognized by the request state machine.
// Providers for these are installed per request; user-declared providers
// may not shadow them.
const (
	NameRequest   = "request"
	NameHeaders   = "headers"
	NameException = "exception"
	NameRequestID = "request_id"
	NameTraceID   = "trace_id"
)

// ErrUnresolvable is wrapped by Resolve when no provider exists for a name.
var ErrUnresolvable = errors.New("unresolvable dependency")

// Provider produces the value for one named dependency. Providers are
// closures built at request setup; they carry whatever request state they
// need and are invoked at most once per request thanks to memoization.
type Provider func() (any, error)

// Resolver resolves named dependencies for a single request with
// memoization through a Cache. Not safe for concurrent use.
type Resolver struct {
	providers map[string]Provider
	cache     *Cache
}

// NewResolver creates a Resolver backed by the given cache. The cache's
// request scope should already be cleared for the request being served.
func NewResolver(cache *Cache) *Resolver {
	return &Resolver{
		providers: make(map[string]Provider),
		cache:     cache,
	}
}

// Register installs a provider under a name. Later registrations replace
// earlier ones, which is how route-specific providers override
// application-wide ones.
func (r *Resolver) Register(name string, p Provider) {
	r.providers[name] = p
}

// Has reports whether a provider or cached value exists for the name.
func (r *Resolver) Has(name string) bool {
	if _, ok := r.providers[name]; ok {
		return true
	}
	_, ok := r.cache.Get(name)

	return ok
}

// Resolve returns the value for name, consulting the cache first, then the
// provider. Provider results (including nil) are memoized in the request
// scope; provider errors are not memoized and surface to the caller.
func (r *Resolver) Resolve(name string) (any, error) {
	if v, ok := r.cache.Get(name); ok {
		return v, nil
	}

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvable, name)
	}

	v, err := p()
	if err != nil {
		return nil, err
	}
	r.cache.Set(name, v)

	return v, nil
}

// Store memoizes a value directly, bypassing any provider. Used by guarded
// dependency evaluation, which caches the guard's result under its name for
// later injection into the handler.
func (r *Resolver) Store(name string, value any) {
	r.cache.Set(name, value)
}

// Cache exposes the backing cache for adapters that need session scope.
func (r *Resolver) Cache() *Cache {
	return r.cache
}
