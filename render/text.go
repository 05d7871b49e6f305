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
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Text is the default text/plain renderer. Scalars are stringified;
// mappings print as "key: value" lines, one per entry.
func Text(value any) ([]byte, error) {
	s, err := stringify(value)
	if err != nil {
		return nil, err
	}

	return []byte(s), nil
}

// mapLines renders a mapping as sorted "key: value" lines.
func mapLines(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(scalarString(m[k]))
	}

	return b.String()
}

// scalarString stringifies a single value, falling back to fmt for types
// cast does not cover (nested maps, slices).
func scalarString(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}

	return fmt.Sprintf("%v", v)
}
