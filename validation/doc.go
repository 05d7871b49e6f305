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

// Package validation converts and validates handler inputs and results
// against declared model types.
//
// A model is a plain struct carrying `mapstructure` and `validate` tags.
// ToModel decodes a raw mapping (typically a parsed request body or a
// handler's raw return value) into a fresh instance of the declared type and
// runs tag validation; failures surface as *Error with one FieldError per
// offending field, which the state machine reports as 422 with structured
// details rather than a 500.
package validation
