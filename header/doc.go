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

// Package header provides pure parsing and comparison helpers for the HTTP
// header values that drive conditional request evaluation: entity tags
// (RFC 9110 §8.8), HTTP dates (§5.6.7), and byte ranges (§14).
//
// The functions here hold no state and never allocate beyond their return
// values; the request state machine in package machine is the only intended
// consumer, but the helpers are exported because adapters occasionally need
// the same parsing.
package header
