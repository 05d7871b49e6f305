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
	"errors"
	"net/http"
)

// ErrorType allows errors to declare their own HTTP status code.
// Domain errors can optionally implement this interface to control their status code.
//
// Example:
//
//	type QuotaError struct {
//		Message string
//	}
//
//	func (e QuotaError) Error() string {
//		return e.Message
//	}
//
//	func (e QuotaError) HTTPStatus() int {
//		return http.StatusTooManyRequests
//	}
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information,
// such as field-level validation failures.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// HTTPError is an error carrying an HTTP status, an optional structured
// detail payload, and an optional cause. It implements ErrorType and
// ErrorDetails, so the Builder and any status-aware caller can consume it
// without type switches on concrete domain errors.
type HTTPError struct {
	// Status is the HTTP status code.
	Status int

	// Message is the human-readable error message. If empty, the standard
	// status text for Status is used.
	Message string

	// Detail is optional structured information (nil means none).
	Detail any

	// Cause is the underlying error, if any.
	Cause error
}

// New creates an HTTPError with the given status and message.
//
// Example:
//
//	return errors.New(http.StatusNotFound, "Not Found")
func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Wrap creates an HTTPError with the given status whose message and cause
// come from err.
//
// Example:
//
//	if err := store.Load(id); err != nil {
//		return errors.Wrap(err, http.StatusInternalServerError)
//	}
func Wrap(err error, status int) *HTTPError {
	return &HTTPError{Status: status, Message: err.Error(), Cause: err}
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}

	return e.Message
}

// HTTPStatus returns the HTTP status code for this error.
func (e *HTTPError) HTTPStatus() int {
	return e.Status
}

// Details returns the structured detail payload, or nil.
func (e *HTTPError) Details() any {
	return e.Detail
}

// Unwrap returns the underlying cause, if any.
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// WithDetail returns the error with a structured detail payload attached.
func (e *HTTPError) WithDetail(detail any) *HTTPError {
	e.Detail = detail

	return e
}

// WithStatus wraps an error with an explicit HTTP status code.
// The wrapped error implements the ErrorType interface.
//
// If err is nil, the status text for the given code is used as the message.
//
// Example:
//
//	return errors.WithStatus(err, http.StatusServiceUnavailable)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}

	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

// StatusOf extracts the HTTP status an error maps to: the ErrorType status
// when the error (or anything it wraps) declares one, else 500.
func StatusOf(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}
