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
	"fmt"
	"strconv"
	"strings"
)

// ByteRange is one satisfiable byte range resolved against a known total
// size. Start and End are inclusive offsets per RFC 9110 §14.1.2.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange renders the Content-Range header value for a 206 response.
//
// Example:
//
//	ByteRange{Start: 0, End: 4}.ContentRange(10) // "bytes 0-4/10"
func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// UnsatisfiedContentRange renders the Content-Range value carried by a
// 416 response: "bytes */<size>".
func UnsatisfiedContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// ParseRange parses a Range header value against a resource of the given
// size and returns the satisfiable ranges.
//
// Return contract:
//   - ok=false: the header is not a syntactically valid bytes range spec
//     and must be ignored (serve the full body with 200).
//   - ok=true, empty slice: the spec was valid but no range is satisfiable
//     against size (respond 416).
//   - ok=true, non-empty: satisfiable ranges in header order.
//
// Only the "bytes" unit is recognized. Suffix ranges ("-500") resolve to
// the final N bytes. Ranges extending past the end are truncated to size-1
// per RFC 9110 §14.1.2.
func ParseRange(value string, size int64) (ranges []ByteRange, ok bool) {
	value = strings.TrimSpace(value)
	const prefix = "bytes="
	if !strings.HasPrefix(value, prefix) || size < 0 {
		return nil, false
	}

	specs := strings.Split(value[len(prefix):], ",")
	ranges = make([]ByteRange, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			return nil, false
		}

		dash := strings.Index(spec, "-")
		if dash < 0 {
			return nil, false
		}
		startPart := strings.TrimSpace(spec[:dash])
		endPart := strings.TrimSpace(spec[dash+1:])

		if startPart == "" {
			// Suffix range: last N bytes.
			n, err := strconv.ParseInt(endPart, 10, 64)
			if err != nil || n < 0 {
				return nil, false
			}
			if n == 0 || size == 0 {
				continue // Valid syntax, nothing satisfiable.
			}
			if n > size {
				n = size
			}
			ranges = append(ranges, ByteRange{Start: size - n, End: size - 1})
			continue
		}

		start, err := strconv.ParseInt(startPart, 10, 64)
		if err != nil || start < 0 {
			return nil, false
		}

		end := size - 1
		if endPart != "" {
			end, err = strconv.ParseInt(endPart, 10, 64)
			if err != nil || end < start {
				return nil, false
			}
			if end > size-1 {
				end = size - 1
			}
		}

		if start >= size {
			continue // Syntactically valid but unsatisfiable.
		}
		ranges = append(ranges, ByteRange{Start: start, End: end})
	}

	return ranges, true
}
