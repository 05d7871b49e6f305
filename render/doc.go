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

// Package render maps media types to response render functions and performs
// Accept-header matching for content negotiation.
//
// A Registry holds renderers in registration order; negotiation scans
// per-route overrides first, then the global registry, and returns the first
// renderer the request accepts. The package ships default renderers for
// application/json (indented), text/html (auto-wrapping with escaping), and
// text/plain.
package render
