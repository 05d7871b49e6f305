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

// Cache holds resolved dependency values in two scopes.
//
// The request scope memoizes values for a single processed request and is
// cleared by ClearRequest before each one. The session scope persists across
// requests. Session entries flagged persistent are re-inserted into the
// request scope after every clear, so a hosting adapter can inject a value
// once (a metrics sink, a connection pool) and have it resolvable on every
// request without re-registration.
type Cache struct {
	request    map[string]any
	session    map[string]any
	persistent map[string]struct{}
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		request:    make(map[string]any),
		session:    make(map[string]any),
		persistent: make(map[string]struct{}),
	}
}

// Get returns the cached value for name, consulting the request scope first,
// then the session scope.
func (c *Cache) Get(name string) (any, bool) {
	if v, ok := c.request[name]; ok {
		return v, true
	}
	if v, ok := c.session[name]; ok {
		return v, true
	}

	return nil, false
}

// Set stores a request-scoped value.
func (c *Cache) Set(name string, value any) {
	c.request[name] = value
}

// SetSession stores a session-scoped value that persists across requests.
func (c *Cache) SetSession(name string, value any) {
	c.session[name] = value
}

// Persist stores a session-scoped value and additionally mirrors it into the
// request scope on every clear. Used for adapter-injected resources that
// handlers resolve by name (e.g. "metrics").
func (c *Cache) Persist(name string, value any) {
	c.session[name] = value
	c.persistent[name] = struct{}{}
	c.request[name] = value
}

// Delete removes a name from both scopes.
func (c *Cache) Delete(name string) {
	delete(c.request, name)
	delete(c.session, name)
	delete(c.persistent, name)
}

// ClearRequest drops all request-scoped values, then re-inserts persistent
// session entries. Called at the start of every processed request.
func (c *Cache) ClearRequest() {
	clear(c.request)
	for name := range c.persistent {
		if v, ok := c.session[name]; ok {
			c.request[name] = v
		}
	}
}
