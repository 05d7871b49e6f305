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

// Package binding parses request bodies by declared Content-Type.
//
// Parsers are registered per MIME type; the defaults cover JSON, YAML, TOML,
// and MessagePack. The state machine invokes a parser only when a handler or
// validator declares a need for the parsed body. Failure modes are typed so
// the machine can map them precisely: an unregistered Content-Type is an
// *UnsupportedMediaTypeError (415), a malformed body is a *ParseError (422)
// carrying the underlying decoder message.
package binding
