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

package render

import "strings"

// Canonical media types for the built-in renderers.
const (
	MediaJSON = "application/json"
	MediaHTML = "text/html"
	MediaText = "text/plain"
)

// Func renders a handler result value into response body bytes.
// The value has already been reduced to plain Go data (maps, slices,
// scalars) by the caller; renderers never see framework model types.
type Func func(value any) ([]byte, error)

// Renderer pairs a media type with its render function.
type Renderer struct {
	MediaType string
	Render    Func
}

// Registry holds renderers in registration order. Registration order is the
// negotiation tiebreak: when several registered types are acceptable, the
// first registered wins.
//
// A Registry is constructed once during application setup and read-only
// during request processing; it is not safe for concurrent mutation.
type Registry struct {
	renderers []Renderer
}

// NewRegistry creates a Registry pre-populated with the default JSON, HTML,
// and plain-text renderers, JSON first.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(MediaJSON, JSON)
	r.Register(MediaHTML, HTML)
	r.Register(MediaText, Text)

	return r
}

// Register adds a renderer for the media type. Re-registering an existing
// media type replaces the function in place, preserving its negotiation
// position.
func (r *Registry) Register(mediaType string, fn Func) {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for i := range r.renderers {
		if r.renderers[i].MediaType == mediaType {
			r.renderers[i].Render = fn
			return
		}
	}
	r.renderers = append(r.renderers, Renderer{MediaType: mediaType, Render: fn})
}

// Contains reports whether a renderer is registered for the media type.
func (r *Registry) Contains(mediaType string) bool {
	for i := range r.renderers {
		if strings.EqualFold(r.renderers[i].MediaType, mediaType) {
			return true
		}
	}

	return false
}

// Get returns the renderer registered for the media type.
func (r *Registry) Get(mediaType string) (Renderer, bool) {
	for i := range r.renderers {
		if strings.EqualFold(r.renderers[i].MediaType, mediaType) {
			return r.renderers[i], true
		}
	}

	return Renderer{}, false
}

// MediaTypes returns the registered media types in registration order.
func (r *Registry) MediaTypes() []string {
	types := make([]string, len(r.renderers))
	for i := range r.renderers {
		types[i] = r.renderers[i].MediaType
	}

	return types
}

// Negotiate selects the renderer for an outgoing response.
//
// Route-level overrides are scanned first, in their registration order; an
// override is eligible only when its media type is also registered globally
// and accepted by the request. If no override matches, the global registry
// is scanned in registration order for the first accepted entry.
//
// The second return value is false when nothing is acceptable, in which
// case the caller responds 406 listing the union of available types.
func (r *Registry) Negotiate(accept string, overrides []Renderer) (Renderer, bool) {
	for _, o := range overrides {
		if r.Contains(o.MediaType) && CanRender(o.MediaType, accept) {
			return o, true
		}
	}
	for _, candidate := range r.renderers {
		if CanRender(candidate.MediaType, accept) {
			return candidate, true
		}
	}

	return Renderer{}, false
}

// AvailableTypes returns the union of global and route-override media types,
// global order first, for 406 response bodies.
func (r *Registry) AvailableTypes(overrides []Renderer) []string {
	types := r.MediaTypes()
	for _, o := range overrides {
		if !r.Contains(o.MediaType) {
			types = append(types, o.MediaType)
		}
	}

	return types
}
