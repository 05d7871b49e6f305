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

// Package errors turns failures into HTTP error responses.
//
// The central type is Builder: given a status code, a message, and the
// request's Accept header, it produces a Response with a content-negotiated
// body. Custom error handlers registered on a Registry are consulted first,
// selected by status code with content-type-matching handlers preferred;
// when none applies (or the chosen handler itself fails) the Builder falls
// back to a default JSON or plain-text body carrying the message, optional
// structured details, and best-effort request/trace identifiers.
//
// # Quick Start
//
//	builder := errors.NewBuilder()
//	resp := builder.Build(errors.BuildInput{
//		Accept:  req.Header.Get("Accept"),
//		Status:  http.StatusNotFound,
//		Message: "Not Found",
//	})
//	w.Header().Set("Content-Type", resp.ContentType)
//	w.WriteHeader(resp.Status)
//	w.Write(resp.Body)
//
// # Error Interfaces
//
// Domain errors can implement optional interfaces to drive the builder:
//
//   - ErrorType: declare the HTTP status code
//   - ErrorDetails: provide structured details (e.g. field-level validation errors)
//   - ErrorCode: provide a machine-readable error code
//
// HTTPError implements all three and is the package's ready-made error type:
//
//	return errors.New(http.StatusForbidden, "token lacks the admin scope")
package errors
