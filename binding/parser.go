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

package binding

import (
	"encoding/json"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
)

// Canonical media types for the built-in parsers.
const (
	MediaJSON    = "application/json"
	MediaYAML    = "application/yaml"
	MediaTOML    = "application/toml"
	MediaMsgPack = "application/msgpack"
)

// Func decodes raw body bytes into a generic value, typically a
// map[string]any for object bodies.
type Func func(data []byte) (any, error)

// Registry maps media types to parser functions. Constructed once at
// application setup; read-only during request processing.
type Registry struct {
	parsers map[string]Func
}

// NewRegistry creates a Registry with the built-in JSON, YAML, TOML, and
// MessagePack parsers registered.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Func)}
	r.Register(MediaJSON, JSON)
	r.Register(MediaYAML, YAML)
	r.Register("text/yaml", YAML)
	r.Register(MediaTOML, TOML)
	r.Register(MediaMsgPack, MsgPack)
	r.Register("application/x-msgpack", MsgPack)

	return r
}

// Register adds or replaces a parser for the media type.
func (r *Registry) Register(mediaType string, fn Func) {
	r.parsers[normalizeMediaType(mediaType)] = fn
}

// Get returns the parser registered for the media type, params stripped.
func (r *Registry) Get(contentType string) (Func, bool) {
	fn, ok := r.parsers[normalizeMediaType(contentType)]
	return fn, ok
}

// Parse decodes body bytes according to the declared Content-Type.
//
// A Content-Type with no registered parser yields an
// *UnsupportedMediaTypeError; a decoder failure yields a *ParseError
// wrapping the decoder's message.
func (r *Registry) Parse(contentType string, data []byte) (any, error) {
	mediaType := normalizeMediaType(contentType)
	fn, ok := r.parsers[mediaType]
	if !ok {
		return nil, &UnsupportedMediaTypeError{ContentType: contentType}
	}

	v, err := fn(data)
	if err != nil {
		return nil, &ParseError{MediaType: mediaType, Err: err}
	}

	return v, nil
}

// normalizeMediaType lowercases a Content-Type value and strips parameters
// such as "; charset=utf-8".
func normalizeMediaType(contentType string) string {
	if semi := strings.IndexByte(contentType, ';'); semi >= 0 {
		contentType = contentType[:semi]
	}

	return strings.ToLower(strings.TrimSpace(contentType))
}

// JSON decodes a JSON body into a generic value.
func JSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// YAML decodes a YAML body into a generic value.
func YAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// TOML decodes a TOML body into a map.
func TOML(data []byte) (any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// MsgPack decodes a MessagePack body into a generic value.
func MsgPack(data []byte) (any, error) {
	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}
