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

package errors

import (
	"github.com/restmachine-dev/restmachine/render"
)

// Lookup resolves a named dependency for a custom error handler. It is
// supplied per request by the caller; handlers use it to pull values such
// as "request" or "exception".
type Lookup func(name string) (any, error)

// Handler produces a custom error response body. The returned value is
// coerced: a Response passes through unchanged, a map becomes JSON, a
// string becomes plain text, anything else is marshaled to JSON.
type Handler func(lookup Lookup) (any, error)

// Descriptor registers a Handler for a class of errors.
type Descriptor struct {
	// Status selects which errors the handler applies to. Zero matches
	// any status.
	Status int

	// ContentType optionally restricts the handler to requests that accept
	// this media type. Empty means no restriction.
	ContentType string

	// Handler is invoked to produce the response body.
	Handler Handler
}

// Registry holds custom error handlers in registration order.
// A content-type-restricted handler whose media type the request accepts is
// always preferred over a handler with no restriction for the same status.
type Registry struct {
	handlers []Descriptor
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a handler descriptor.
//
// Example:
//
//	reg.Register(errors.Descriptor{
//		Status:      http.StatusNotFound,
//		ContentType: "application/json",
//		Handler:     notFoundJSON,
//	})
func (r *Registry) Register(d Descriptor) {
	r.handlers = append(r.handlers, d)
}

// Select picks the handler for a status code and Accept header.
// Among status matches, the first handler whose declared content type is
// accepted wins; failing that, the first handler with no declared content
// type. Handlers declaring a content type the request does not accept are
// skipped. The second return is false when no handler applies.
func (r *Registry) Select(status int, accept string) (Descriptor, bool) {
	var fallback *Descriptor
	for i := range r.handlers {
		d := &r.handlers[i]
		if d.Status != 0 && d.Status != status {
			continue
		}
		if d.ContentType == "" {
			if fallback == nil {
				fallback = d
			}
			continue
		}
		if render.CanRender(d.ContentType, accept) {
			return *d, true
		}
	}

	if fallback != nil {
		return *fallback, true
	}

	return Descriptor{}, false
}
