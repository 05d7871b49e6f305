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

package machine

import "errors"

var (
	// ErrTransitionLimit indicates the state machine exceeded its
	// transition cap without reaching a terminal response.
	ErrTransitionLimit = errors.New("state machine exceeded transition limit")

	// ErrNoRenderers indicates no content renderers are registered
	// anywhere, globally or on the matched route.
	ErrNoRenderers = errors.New("no content renderers registered")

	// ErrInvalidTemplate indicates a route path template could not be
	// compiled.
	ErrInvalidTemplate = errors.New("invalid route template")

	// ErrUnknownCallbackState indicates a decision callback was registered
	// under a name that is not a decision state.
	ErrUnknownCallbackState = errors.New("unknown decision state")

	// ErrDuplicateRoute indicates a method+template pair was registered twice.
	ErrDuplicateRoute = errors.New("duplicate route")
)
