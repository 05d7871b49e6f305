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

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/restmachine-dev/restmachine/binding"
	"github.com/restmachine-dev/restmachine/deps"
	resterrors "github.com/restmachine-dev/restmachine/errors"
	"github.com/restmachine-dev/restmachine/header"
)

// contentTypesProvided guards against a configuration with no renderers at
// all: nothing could ever be rendered, which is a server fault, not a
// negotiation failure. A registered content_types_provided callback
// replaces the check, failing with 500.
func (p *processor) contentTypesProvided() (state, *Response, error) {
	if pass, resp, err, ok := p.overrideDecision("content_types_provided"); ok {
		if err != nil || resp != nil {
			return 0, resp, err
		}
		if !pass {
			return 0, nil, ErrNoRenderers
		}

		return stateContentTypesAccepted, nil, nil
	}

	if len(p.app.renderers.MediaTypes()) == 0 && len(p.ctx.route.renderers) == 0 {
		return 0, nil, ErrNoRenderers
	}

	return stateContentTypesAccepted, nil, nil
}

// contentTypesAccepted negotiates the response renderer: route overrides
// first (eligible only when also registered globally), then the global
// registry in registration order. Nothing acceptable is a 406 whose body
// lists every available media type. A registered content_types_accepted
// callback is consulted first and fails with 406; when it passes, the
// negotiation still runs to pick the renderer.
func (p *processor) contentTypesAccepted() (state, *Response, error) {
	if pass, resp, err, ok := p.overrideDecision("content_types_accepted"); ok {
		if err != nil || resp != nil {
			return 0, resp, err
		}
		if !pass {
			return 0, p.failResponse(http.StatusNotAcceptable), nil
		}
	}

	accept := p.req.Header("Accept")
	renderer, ok := p.app.renderers.Negotiate(accept, p.ctx.route.renderers)
	if !ok {
		available := p.app.renderers.AvailableTypes(p.ctx.route.renderers)
		p.resolver.Store(deps.NameException,
			resterrors.New(http.StatusNotAcceptable, http.StatusText(http.StatusNotAcceptable)).WithDetail(available))

		return 0, p.buildError(http.StatusNotAcceptable, http.StatusText(http.StatusNotAcceptable), available), nil
	}
	if renderer.Render == nil {
		// Route overrides carry only the media type; the function lives in
		// the global registry.
		renderer, _ = p.app.renderers.Get(renderer.MediaType)
	}
	p.renderer = renderer

	return stateExecuteAndRender, nil, nil
}

// execute invokes the matched handler and turns its result into the final
// Response: nil means 204, a *Response passes through, readers and byte
// slices become the body as-is, and anything else is validated against the
// route's declared model and rendered by the negotiated renderer.
func (p *processor) execute() (*Response, error) {
	result, err := p.ctx.route.Handler(p.ctx)
	if err != nil {
		return nil, err
	}

	resp, err := p.materialize(result)
	if err != nil {
		return nil, err
	}

	if err := p.decorateHeaders(resp); err != nil {
		return nil, err
	}
	if resp.Status >= 200 && resp.Status < 300 {
		p.attachValidators(resp)
	}
	// Range semantics apply only to streamable bodies (raw bytes or a
	// reader), never to rendered model output.
	if p.streamable && p.req.Method == http.MethodGet && resp.Status == http.StatusOK {
		if ranged := p.applyRange(resp); ranged != nil {
			resp = ranged
		}
	}
	if len(p.app.renderers.MediaTypes()) > 1 {
		resp.AddVary("Accept")
	}
	if p.varyAuth {
		resp.AddVary("Authorization")
	}

	return resp, nil
}

// materialize converts a handler result into a Response.
func (p *processor) materialize(result any) (*Response, error) {
	switch v := result.(type) {
	case nil:
		return NewResponse(http.StatusNoContent), nil
	case *Response:
		if v.Headers == nil {
			v.Headers = http.Header{}
		}
		if v.Status == 0 {
			v.Status = http.StatusOK
		}
		if len(v.Body) > 0 && v.Headers.Get("Content-Type") == "" {
			v.Headers.Set("Content-Type", p.renderer.MediaType)
		}

		return v, nil
	case []byte:
		p.streamable = true

		return p.bodyResponse(v), nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, err
		}
		p.streamable = true

		return p.bodyResponse(data), nil
	default:
		value := result
		if p.ctx.route.returns != nil {
			converted, err := p.app.validator.ToModel(result, p.ctx.route.returns)
			if err != nil {
				return nil, err
			}
			value = converted
		}
		body, err := p.renderer.Render(value)
		if err != nil {
			return nil, err
		}

		return p.bodyResponse(body), nil
	}
}

// decorateHeaders applies the route's named header decorators and then the
// application-wide ones, skipping application decorators whose name a
// route decorator already claimed. Decorators run even for a 204.
func (p *processor) decorateHeaders(resp *Response) error {
	seen := make(map[string]struct{}, len(p.ctx.route.headerFns))
	for _, d := range p.ctx.route.headerFns {
		seen[d.name] = struct{}{}
		if err := d.fn(p.ctx, resp.Headers); err != nil {
			return err
		}
	}
	for _, d := range p.app.headerFns {
		if _, ok := seen[d.name]; ok {
			continue
		}
		if err := d.fn(p.ctx, resp.Headers); err != nil {
			return err
		}
	}

	return nil
}

// bodyResponse wraps raw body bytes in a 200 carrying the negotiated
// content type.
func (p *processor) bodyResponse(body []byte) *Response {
	resp := NewResponse(http.StatusOK)
	resp.SetHeader("Content-Type", p.renderer.MediaType)
	resp.Body = body

	return resp
}

// attachValidators adds the resource's ETag and Last-Modified headers to a
// success response. Generator failures are swallowed here: the response is
// the primary outcome and a validator header is a best-effort side lookup.
func (p *processor) attachValidators(resp *Response) {
	if etag, err := p.currentETag(); err == nil && etag != "" && resp.ETag() == "" {
		resp.SetHeader("ETag", etag)
	}
	if lastMod, known, err := p.currentLastModified(); err == nil && known {
		if resp.Headers.Get("Last-Modified") == "" {
			resp.SetLastModified(lastMod)
		}
	}
}

// applyRange serves a GET's Range header against the materialized body.
//
// Outcomes follow the three-way parse contract: a malformed header is
// ignored (full 200), a syntactically valid but unsatisfiable one is a 416
// carrying "bytes */N", and a single satisfiable range is a 206 with the
// matching Content-Range slice. Multiple ranges are answered with the full
// body; multipart/byteranges is not produced. A nil return means the
// original response stands.
func (p *processor) applyRange(resp *Response) *Response {
	rangeHeader := p.req.Header("Range")
	if rangeHeader == "" {
		return nil
	}
	if !p.ifRangeAllows(resp) {
		return nil
	}

	size := int64(len(resp.Body))
	ranges, ok := header.ParseRange(rangeHeader, size)
	if !ok {
		return nil
	}
	if len(ranges) == 0 {
		failed := p.buildError(http.StatusRequestedRangeNotSatisfiable,
			http.StatusText(http.StatusRequestedRangeNotSatisfiable), nil)
		failed.SetHeader("Content-Range", header.UnsatisfiedContentRange(size))

		return failed.finalize()
	}
	if len(ranges) > 1 {
		return nil
	}

	br := ranges[0]
	resp.Status = http.StatusPartialContent
	resp.SetHeader("Content-Range", br.ContentRange(size))
	resp.SetHeader("Accept-Ranges", "bytes")
	resp.Body = resp.Body[br.Start : br.End+1]

	return resp
}

// ifRangeAllows evaluates If-Range: the range applies only when the
// validator it names (an entity tag, strong comparison, or an exact
// Last-Modified date) still describes the current resource. Absent means
// the range always applies.
func (p *processor) ifRangeAllows(resp *Response) bool {
	value := strings.TrimSpace(p.req.Header("If-Range"))
	if value == "" {
		return true
	}

	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, header.WeakPrefix) {
		etag := resp.ETag()
		if etag == "" {
			if current, err := p.currentETag(); err == nil {
				etag = current
			}
		}

		return etag != "" && header.ETagsMatch(etag, value, true)
	}

	date, ok := header.ParseHTTPDate(value)
	if !ok {
		return false
	}
	lastMod, known, err := p.currentLastModified()
	if err != nil || !known {
		return false
	}

	return lastMod.Truncate(time.Second).Equal(date)
}

// bodyProvider builds the "body" dependency for a matched route: the raw
// body parsed per Content-Type and, when the route declares a body model,
// decoded and validated into it. Resolution is memoized, so the body is
// parsed at most once per request however many consumers resolve it.
func (p *processor) bodyProvider(route *Route) deps.Provider {
	return func() (any, error) {
		if len(p.req.Body) == 0 {
			return nil, nil
		}
		contentType := p.req.Header("Content-Type")
		if contentType == "" {
			contentType = binding.MediaJSON
		}
		parsed, err := p.app.parsers.Parse(contentType, p.req.Body)
		if err != nil {
			return nil, err
		}
		if route.accepts != nil {
			return p.app.validator.ToModel(parsed, route.accepts)
		}

		return parsed, nil
	}
}
