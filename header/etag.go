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

package header

import "strings"

// WeakPrefix marks a weak entity tag per RFC 9110 §8.8.3.
const WeakPrefix = `W/`

// ParseETagList parses an If-Match / If-None-Match header value into an
// ordered list of entity-tag tokens.
//
// Behavior:
//   - Empty or absent input yields an empty list.
//   - A literal "*" yields the single-element list ["*"].
//   - Otherwise the value is split on commas; each token is trimmed and
//     normalized: already-quoted tags and W/"..." weak tags are kept as-is,
//     bare tokens are wrapped in double quotes.
//
// Input order is preserved.
//
// Example:
//
//	header.ParseETagList(`"a", W/"b", c`) // [`"a"`, `W/"b"`, `"c"`]
//	header.ParseETagList("*")             // ["*"]
func ParseETagList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if value == "*" {
		return []string{"*"}
	}

	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, normalizeETag(tag))
	}

	return tags
}

// normalizeETag returns the token in canonical quoted form.
// Quoted and weak-prefixed tags pass through untouched.
func normalizeETag(tag string) string {
	if strings.HasPrefix(tag, `"`) && strings.HasSuffix(tag, `"`) && len(tag) >= 2 {
		return tag
	}
	if strings.HasPrefix(tag, WeakPrefix) {
		return tag
	}

	return `"` + tag + `"`
}

// ETagsMatch reports whether two entity tags match under the comparison
// rules of RFC 9110 §8.8.3.2.
//
// With strong=true both tags must be non-weak and their opaque values equal.
// With strong=false the opaque values are compared and weak prefixes are
// ignored. Empty input on either side never matches.
//
// The comparison is symmetric: ETagsMatch(a, b, s) == ETagsMatch(b, a, s).
func ETagsMatch(a, b string, strong bool) bool {
	if a == "" || b == "" {
		return false
	}

	aValue, aWeak := splitETag(a)
	bValue, bWeak := splitETag(b)

	if strong && (aWeak || bWeak) {
		return false
	}

	return aValue == bValue
}

// splitETag extracts the opaque value and weak flag from an entity tag.
// Accepts quoted, weak-prefixed, and bare forms.
func splitETag(tag string) (value string, weak bool) {
	if strings.HasPrefix(tag, WeakPrefix) {
		weak = true
		tag = tag[len(WeakPrefix):]
	}
	tag = strings.TrimPrefix(tag, `"`)
	tag = strings.TrimSuffix(tag, `"`)

	return tag, weak
}

// FormatETag renders an opaque value as an entity-tag header value,
// adding the weak prefix when requested.
//
// Example:
//
//	header.FormatETag("v1", false) // `"v1"`
//	header.FormatETag("v1", true)  // `W/"v1"`
func FormatETag(value string, weak bool) string {
	if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2 {
		// Already quoted; only add the weak prefix if needed.
		if weak && !strings.HasPrefix(value, WeakPrefix) {
			return WeakPrefix + value
		}
		return value
	}
	if strings.HasPrefix(value, WeakPrefix) {
		return value
	}
	if weak {
		return WeakPrefix + `"` + value + `"`
	}

	return `"` + value + `"`
}
