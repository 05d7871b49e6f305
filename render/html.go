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

import (
	"html"
	"strings"
)

// HTML is the default text/html renderer.
//
// A string that already looks like an HTML document (leading '<' after
// trimming) passes through untouched. Anything else is stringified, escaped,
// and wrapped in a minimal HTML document so untrusted handler output cannot
// inject markup.
func HTML(value any) ([]byte, error) {
	if s, ok := value.(string); ok && strings.HasPrefix(strings.TrimSpace(s), "<") {
		return []byte(s), nil
	}

	text, err := stringify(value)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.Grow(len(text) + 64)
	b.WriteString("<!DOCTYPE html>\n<html>\n<body>\n<p>")
	b.WriteString(html.EscapeString(text))
	b.WriteString("</p>\n</body>\n</html>")

	return []byte(b.String()), nil
}

// stringify reduces a value to its plain-text form, shared by the HTML and
// text renderers. Maps print as "key: value" lines, one per entry, sorted
// for deterministic output; scalars go through cast.
func stringify(value any) (string, error) {
	if m, ok := value.(map[string]any); ok {
		return mapLines(m), nil
	}

	return scalarString(value), nil
}
