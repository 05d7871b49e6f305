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

package render

import "strings"

// Wildcard is the media range that accepts any media type.
const Wildcard = "*/*"

// CanRender reports whether a renderer for mediaType satisfies the given
// Accept header value.
//
// Matching follows the registry's negotiation contract rather than full
// RFC 9110 quality ordering: an empty or */* Accept accepts everything;
// otherwise the header is split on commas, each entry's parameters (text
// after ';') are stripped, and the entry set is tested for the media type
// or for */*.
//
// Example:
//
//	render.CanRender("application/json", "application/json; q=0.9, text/html") // true
//	render.CanRender("application/json", "text/plain")                         // false
func CanRender(mediaType, accept string) bool {
	accept = strings.TrimSpace(accept)
	if accept == "" || accept == Wildcard {
		return true
	}

	for entry := range splitAccept(accept) {
		if entry == Wildcard || strings.EqualFold(entry, mediaType) {
			return true
		}
	}

	return false
}

// splitAccept iterates the media ranges of an Accept header value with
// parameters stripped and whitespace trimmed. Manual scanning, no allocation
// beyond the yielded substrings.
func splitAccept(accept string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		start := 0
		for i := 0; i <= len(accept); i++ {
			if i != len(accept) && accept[i] != ',' {
				continue
			}
			entry := accept[start:i]
			start = i + 1

			// Strip parameters after ';'.
			if semi := strings.IndexByte(entry, ';'); semi >= 0 {
				entry = entry[:semi]
			}
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}
