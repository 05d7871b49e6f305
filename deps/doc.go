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

// Package deps implements named dependency resolution with per-request
// memoization.
//
// Dependencies are values identified by name ("request", "request_id", a
// user-declared provider, a guarded resource) and resolved through an
// explicit name-to-provider registry rather than reflection. A Cache holds
// two scopes: the request scope is cleared at the start of every processed
// request, the session scope persists for the lifetime of the application
// instance. Session entries stored with Persist survive the request-scope
// clear, which is how hosting adapters keep long-lived resources such as
// metrics sinks visible to handlers.
//
// The request scope is not safe for concurrent use; one Resolver serves
// exactly one request. The session scope is shared and must be protected by
// the hosting layer if requests are served concurrently.
package deps
