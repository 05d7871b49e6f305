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
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrUnsupportedMediaType indicates no parser is registered for the
	// request's Content-Type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMalformedBody indicates the body could not be decoded by the
	// parser for its declared Content-Type.
	ErrMalformedBody = errors.New("malformed request body")
)

// UnsupportedMediaTypeError reports a Content-Type with no registered
// parser. Maps to 415.
type UnsupportedMediaTypeError struct {
	ContentType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type %q", e.ContentType)
}

// Unwrap returns ErrUnsupportedMediaType for errors.Is compatibility.
func (e *UnsupportedMediaTypeError) Unwrap() error {
	return ErrUnsupportedMediaType
}

// HTTPStatus implements the errors.ErrorType contract.
func (e *UnsupportedMediaTypeError) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ParseError wraps a decoder failure for a registered media type.
// Maps to 422 with the decoder's message preserved.
type ParseError struct {
	MediaType string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s body: %v", e.MediaType, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrMalformedBody so callers can match the class
// without knowing the media type.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedBody
}

// HTTPStatus implements the errors.ErrorType contract.
func (e *ParseError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}
