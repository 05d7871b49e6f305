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

package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrValidation is the sentinel for validation failures.
// Use errors.Is(err, ErrValidation) to detect the class.
var ErrValidation = errors.New("validation")

// FieldError is one validation failure for a specific field.
type FieldError struct {
	Path    string         `json:"path"`           // Field path, e.g. "items.2.price"
	Code    string         `json:"code"`           // Stable code, e.g. "tag.required"
	Message string         `json:"message"`        // Human-readable message
	Meta    map[string]any `json:"meta,omitempty"` // Extra metadata (tag, param)
}

// Error formats as "path: message", or just the message when path is empty.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns ErrValidation for errors.Is compatibility.
func (e FieldError) Unwrap() error {
	return ErrValidation
}

// Error collects the FieldError values for one failed validation.
//
//nolint:recvcheck // value receiver needed for the error interface, pointer for mutation
type Error struct {
	Fields []FieldError `json:"errors"`
}

// Error returns a summary joining all field messages.
func (v Error) Error() string {
	switch len(v.Fields) {
	case 0:
		return "validation failed"
	case 1:
		return v.Fields[0].Error()
	}

	msgs := make([]string, len(v.Fields))
	for i, fe := range v.Fields {
		msgs[i] = fe.Error()
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrValidation for errors.Is compatibility.
func (v Error) Unwrap() error {
	return ErrValidation
}

// HTTPStatus implements the errors.ErrorType contract.
func (v Error) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// Details implements the errors.ErrorDetails contract; the field list is
// embedded in error response bodies.
func (v Error) Details() any {
	return v.Fields
}

// Code implements the errors.ErrorCode contract.
func (v Error) Code() string {
	return "validation_error"
}

// Add appends a FieldError.
func (v *Error) Add(path, code, message string, meta map[string]any) {
	v.Fields = append(v.Fields, FieldError{
		Path:    path,
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// HasErrors reports whether any field failed.
func (v *Error) HasErrors() bool {
	return len(v.Fields) > 0
}
