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
	"strings"
	"time"
)

// TimeFormat is the IMF-fixdate layout used for all generated date headers.
// HTTP dates are always expressed in GMT, never in a local zone name.
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// HTTP date formats accepted for conditional request headers, in preference
// order per RFC 9110 §5.6.7. The primary format is IMF-fixdate (RFC 1123);
// the obsolete RFC 850 dashed format is accepted as a fallback.
var httpDateFormats = []string{
	TimeFormat,                       // IMF-fixdate, "Mon, 02 Jan 2006 15:04:05 GMT"
	time.RFC1123,                     // RFC 1123 with arbitrary zone abbreviation
	"Monday, 02-Jan-06 15:04:05 GMT", // RFC 850 with full weekday
	"Mon, 02-Jan-06 15:04:05 GMT",    // RFC 850 dashed, short weekday
	time.ANSIC,                       // "Mon Jan _2 15:04:05 2006"
}

// ParseHTTPDate parses an HTTP date header value such as Last-Modified,
// If-Modified-Since, or If-Unmodified-Since.
//
// Invalid input yields ok=false rather than an error; conditional request
// evaluation treats an unparseable date as an absent header.
//
// Example:
//
//	t, ok := header.ParseHTTPDate("Mon, 02 Jan 2006 15:04:05 GMT")
func ParseHTTPDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, format := range httpDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// FormatHTTPDate renders a timestamp in IMF-fixdate form for response
// headers. Sub-second precision is dropped, matching header granularity.
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimeFormat)
}
