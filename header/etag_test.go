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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseETagList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"wildcard", "*", []string{"*"}},
		{"single quoted", `"abc"`, []string{`"abc"`}},
		{"single bare", "abc", []string{`"abc"`}},
		{"single weak", `W/"abc"`, []string{`W/"abc"`}},
		{"mixed list", `"a", W/"b", c`, []string{`"a"`, `W/"b"`, `"c"`}},
		{"order preserved", `"z", "a"`, []string{`"z"`, `"a"`}},
		{"empty elements skipped", `"a", , "b"`, []string{`"a"`, `"b"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, ParseETagList(tt.input))
		})
	}
}

func TestETagsMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   string
		strong bool
		want   bool
	}{
		{"strong equal", `"v1"`, `"v1"`, true, true},
		{"strong unequal", `"v1"`, `"v2"`, true, false},
		{"strong rejects weak left", `W/"v1"`, `"v1"`, true, false},
		{"strong rejects weak right", `"v1"`, `W/"v1"`, true, false},
		{"strong rejects both weak", `W/"v1"`, `W/"v1"`, true, false},
		{"weak equal", `"v1"`, `"v1"`, false, true},
		{"weak ignores weak prefix", `W/"v1"`, `"v1"`, false, true},
		{"weak both weak", `W/"v1"`, `W/"v1"`, false, true},
		{"weak unequal", `W/"v1"`, `W/"v2"`, false, false},
		{"empty left", "", `"v1"`, false, false},
		{"empty right", `"v1"`, "", false, false},
		{"bare tokens compare", "v1", `"v1"`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ETagsMatch(tt.a, tt.b, tt.strong))
			// Comparison must be symmetric.
			assert.Equal(t, tt.want, ETagsMatch(tt.b, tt.a, tt.strong))
		})
	}
}

func TestFormatETag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"v"`, FormatETag("v", false))
	assert.Equal(t, `W/"v"`, FormatETag("v", true))
	assert.Equal(t, `"v"`, FormatETag(`"v"`, false))
	assert.Equal(t, `W/"v"`, FormatETag(`"v"`, true))
	assert.Equal(t, `W/"v"`, FormatETag(`W/"v"`, true))
}
