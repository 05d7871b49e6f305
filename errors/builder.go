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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/restmachine-dev/restmachine/deps"
	"github.com/restmachine-dev/restmachine/render"
)

// Response is a fully built error response: status, content type, and the
// rendered body bytes. Headers carries any extra headers a custom handler
// set (nil when there are none).
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the rendered response body.
	Body []byte

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// BuildInput carries everything the Builder needs for one error response.
type BuildInput struct {
	// Accept is the request's Accept header value ("" when absent).
	Accept string

	// Status is the HTTP status code of the failure.
	Status int

	// Message is the human-readable error message.
	Message string

	// Details is optional structured information, typically field-level
	// validation errors. Nil means none.
	Details any

	// Lookup resolves named dependencies for custom handlers and for the
	// best-effort request_id/trace_id fields. May be nil.
	Lookup Lookup
}

// Builder turns a status code and message into a Response. Custom handlers
// from the registry are tried first; the fallback body is content negotiated
// between JSON and plain text.
type Builder struct {
	registry *Registry
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRegistry sets the custom handler registry consulted before the
// default body is built.
func WithRegistry(r *Registry) BuilderOption {
	return func(b *Builder) {
		b.registry = r
	}
}

// WithLogger sets the logger used to record swallowed handler failures.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a Builder. Without options it has no custom handlers
// and logs nowhere.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		registry: NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build produces the error response for the given input.
//
// A matching custom handler runs first; its result is coerced into a
// Response (see Handler). If the handler itself fails, the failure is
// logged and the default body is used instead, so an error response is
// always produced.
func (b *Builder) Build(in BuildInput) Response {
	if d, ok := b.registry.Select(in.Status, in.Accept); ok {
		resp, err := b.invoke(d, in)
		if err == nil {
			return resp
		}
		b.logger.Warn("custom error handler failed",
			slog.Int("status", in.Status),
			slog.String("error", err.Error()),
		)
	}

	return b.fallback(in)
}

// invoke runs a custom handler and coerces its result.
func (b *Builder) invoke(d Descriptor, in BuildInput) (Response, error) {
	lookup := in.Lookup
	if lookup == nil {
		lookup = func(string) (any, error) {
			return nil, deps.ErrUnresolvable
		}
	}

	result, err := d.Handler(lookup)
	if err != nil {
		return Response{}, err
	}

	return coerce(result, in.Status, d.ContentType)
}

// coerce converts a handler's return value into a Response. The handler's
// declared content type applies when the result does not carry its own.
func coerce(result any, status int, declared string) (Response, error) {
	switch v := result.(type) {
	case Response:
		if v.Status == 0 {
			v.Status = status
		}
		if v.ContentType == "" {
			v.ContentType = contentTypeOr(declared, render.MediaJSON)
		}

		return v, nil
	case string:
		return Response{
			Status:      status,
			ContentType: contentTypeOr(declared, render.MediaText),
			Body:        []byte(v),
		}, nil
	case []byte:
		return Response{
			Status:      status,
			ContentType: contentTypeOr(declared, render.MediaJSON),
			Body:        v,
		}, nil
	default:
		body, err := json.Marshal(v)
		if err != nil {
			return Response{}, fmt.Errorf("marshal handler result: %w", err)
		}

		return Response{
			Status:      status,
			ContentType: contentTypeOr(declared, render.MediaJSON),
			Body:        body,
		}, nil
	}
}

func contentTypeOr(declared, def string) string {
	if declared != "" {
		return declared
	}

	return def
}

// fallback builds the default error body. Identifier lookups are best
// effort: a resolver failure leaves the field out, it never masks the
// primary error.
func (b *Builder) fallback(in BuildInput) Response {
	requestID := b.lookupString(in.Lookup, deps.NameRequestID)
	traceID := b.lookupString(in.Lookup, deps.NameTraceID)

	if wantsText(in.Accept) {
		return Response{
			Status:      in.Status,
			ContentType: render.MediaText,
			Body:        textBody(in.Message, in.Details, requestID, traceID),
		}
	}

	body := map[string]any{
		"error": in.Message,
	}
	if in.Details != nil {
		body["details"] = in.Details
	}
	if requestID != "" {
		body["request_id"] = requestID
	}
	if traceID != "" {
		body["trace_id"] = traceID
	}

	data, err := json.Marshal(body)
	if err != nil {
		// Details was unmarshalable; the message alone always marshals.
		data, _ = json.Marshal(map[string]any{"error": in.Message})
	}

	return Response{
		Status:      in.Status,
		ContentType: render.MediaJSON,
		Body:        data,
	}
}

func (b *Builder) lookupString(lookup Lookup, name string) string {
	if lookup == nil {
		return ""
	}
	v, err := lookup(name)
	if err != nil || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}

	return s
}

// wantsText reports whether the Accept header asks for plain text
// exclusively. Absent headers, application/json, and */* all mean JSON;
// anything unrecognized defaults to JSON as well.
func wantsText(accept string) bool {
	value := strings.TrimSpace(accept)
	if semi := strings.IndexByte(value, ';'); semi >= 0 {
		value = strings.TrimSpace(value[:semi])
	}

	return strings.EqualFold(value, render.MediaText)
}

// textBody renders the plain-text fallback as "key: value" lines.
func textBody(message string, details any, requestID, traceID string) []byte {
	var sb strings.Builder
	sb.WriteString("error: ")
	sb.WriteString(message)
	sb.WriteByte('\n')
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			sb.WriteString("details: ")
			sb.Write(data)
			sb.WriteByte('\n')
		}
	}
	if requestID != "" {
		sb.WriteString("request_id: ")
		sb.WriteString(requestID)
		sb.WriteByte('\n')
	}
	if traceID != "" {
		sb.WriteString("trace_id: ")
		sb.WriteString(traceID)
		sb.WriteByte('\n')
	}

	return []byte(sb.String())
}
