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
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// NewRequestID generates the value for the request_id built-in dependency.
func NewRequestID() string {
	return uuid.NewString()
}

// TraceIDFromTraceparent extracts the trace-id field from a W3C traceparent
// header value ("version-traceid-spanid-flags"). Returns empty when the
// header is absent or the trace-id is invalid or all-zero, in which case the
// trace_id built-in falls back to a generated identifier.
func TraceIDFromTraceparent(value string) string {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) < 4 {
		return ""
	}

	id, err := trace.TraceIDFromHex(parts[1])
	if err != nil || !id.IsValid() {
		return ""
	}

	return id.String()
}

// NewTraceID resolves the trace_id built-in: the traceparent header's
// trace-id when present and valid, otherwise a fresh UUID.
func NewTraceID(traceparent string) string {
	if id := TraceIDFromTraceparent(traceparent); id != "" {
		return id
	}

	return uuid.NewString()
}
