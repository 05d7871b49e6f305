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
	"net/http"
	"time"

	"github.com/restmachine-dev/restmachine/header"
)

// currentETag returns the resource's formatted entity tag from the route's
// generator, computed once per request. "" means no ETag is available.
func (p *processor) currentETag() (string, error) {
	if p.etagLoaded {
		return p.etag, nil
	}
	p.etagLoaded = true
	if p.ctx.route == nil || p.ctx.route.etagFn == nil {
		return "", nil
	}

	value, weak, err := p.ctx.route.etagFn(p.ctx)
	if err != nil {
		return "", err
	}
	if value != "" {
		p.etag = header.FormatETag(value, weak)
	}

	return p.etag, nil
}

// currentLastModified returns the resource's modification time from the
// route's generator, computed once per request.
func (p *processor) currentLastModified() (time.Time, bool, error) {
	if p.lastModDone {
		return p.lastMod, p.lastModSet, nil
	}
	p.lastModDone = true
	if p.ctx.route == nil || p.ctx.route.lastModFn == nil {
		return time.Time{}, false, nil
	}

	t, err := p.ctx.route.lastModFn(p.ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	if !t.IsZero() {
		p.lastMod = t
		p.lastModSet = true
	}

	return p.lastMod, p.lastModSet, nil
}

// ifMatch evaluates If-Match: absent passes; present without a current
// ETag fails 412; "*" passes (the resource exists by this state); anything
// else must strong-match the current ETag. A registered if_match callback
// replaces the header evaluation, failing with 412.
func (p *processor) ifMatch() (state, *Response, error) {
	if pass, resp, err, ok := p.overrideDecision("if_match"); ok {
		if err != nil || resp != nil {
			return 0, resp, err
		}
		if !pass {
			return 0, p.failResponse(http.StatusPreconditionFailed), nil
		}

		return stateIfUnmodifiedSince, nil, nil
	}

	value := p.req.Header("If-Match")
	if value == "" {
		return stateIfUnmodifiedSince, nil, nil
	}

	current, err := p.currentETag()
	if err != nil {
		return 0, nil, err
	}
	if current == "" {
		return 0, p.failResponse(http.StatusPreconditionFailed), nil
	}

	tags := header.ParseETagList(value)
	for _, tag := range tags {
		if tag == "*" || header.ETagsMatch(current, tag, true) {
			return stateIfUnmodifiedSince, nil, nil
		}
	}

	return 0, p.failResponse(http.StatusPreconditionFailed), nil
}

// ifUnmodifiedSince evaluates If-Unmodified-Since: absent passes; an
// unparseable date is ignored; no Last-Modified available fails 412; a
// resource modified after the header's timestamp fails 412. A registered
// if_unmodified_since callback replaces the header evaluation.
func (p *processor) ifUnmodifiedSince() (state, *Response, error) {
	if pass, resp, err, ok := p.overrideDecision("if_unmodified_since"); ok {
		if err != nil || resp != nil {
			return 0, resp, err
		}
		if !pass {
			return 0, p.failResponse(http.StatusPreconditionFailed), nil
		}

		return stateIfNoneMatch, nil, nil
	}

	value := p.req.Header("If-Unmodified-Since")
	if value == "" {
		return stateIfNoneMatch, nil, nil
	}
	since, ok := header.ParseHTTPDate(value)
	if !ok {
		return stateIfNoneMatch, nil, nil
	}

	lastMod, known, err := p.currentLastModified()
	if err != nil {
		return 0, nil, err
	}
	if !known {
		return 0, p.failResponse(http.StatusPreconditionFailed), nil
	}
	if lastMod.Truncate(time.Second).After(since) {
		return 0, p.failResponse(http.StatusPreconditionFailed), nil
	}

	return stateIfNoneMatch, nil, nil
}

// ifNoneMatch evaluates If-None-Match with weak comparison: a match means
// 304 for GET (carrying the current ETag) and 412 for every other method;
// no match passes. "*" matches whenever the resource exists, which it does
// by this state. A registered if_none_match callback replaces the header
// evaluation, failing with the state's method-dependent outcome.
func (p *processor) ifNoneMatch() (state, *Response, error) {
	if pass, resp, err, ok := p.overrideDecision("if_none_match"); ok {
		if err != nil || resp != nil {
			return 0, resp, err
		}
		if !pass {
			if p.req.Method == http.MethodGet {
				return 0, p.notModified(), nil
			}

			return 0, p.failResponse(http.StatusPreconditionFailed), nil
		}

		return stateIfModifiedSince, nil, nil
	}

	value := p.req.Header("If-None-Match")
	if value == "" {
		return stateIfModifiedSince, nil, nil
	}

	current, err := p.currentETag()
	if err != nil {
		return 0, nil, err
	}

	tags := header.ParseETagList(value)
	matched := false
	for _, tag := range tags {
		if tag == "*" {
			matched = true
			break
		}
		if current != "" && header.ETagsMatch(current, tag, false) {
			matched = true
			break
		}
	}
	if !matched {
		return stateIfModifiedSince, nil, nil
	}

	if p.req.Method == http.MethodGet {
		return 0, p.notModified(), nil
	}

	return 0, p.failResponse(http.StatusPreconditionFailed), nil
}

// ifModifiedSince evaluates If-Modified-Since for GET only: a resource not
// modified since the header's timestamp short-circuits to 304. Without a
// Last-Modified the check cannot prove anything and passes.
func (p *processor) ifModifiedSince() (state, *Response, error) {
	if p.req.Method != http.MethodGet {
		return stateContentTypesProvided, nil, nil
	}
	if pass, resp, err, ok := p.overrideDecision("if_modified_since"); ok {
		if err != nil || resp != nil {
			return 0, resp, err
		}
		if !pass {
			return 0, p.notModified(), nil
		}

		return stateContentTypesProvided, nil, nil
	}

	value := p.req.Header("If-Modified-Since")
	if value == "" {
		return stateContentTypesProvided, nil, nil
	}
	since, ok := header.ParseHTTPDate(value)
	if !ok {
		return stateContentTypesProvided, nil, nil
	}

	lastMod, known, err := p.currentLastModified()
	if err != nil {
		return 0, nil, err
	}
	if !known {
		return stateContentTypesProvided, nil, nil
	}
	if !lastMod.Truncate(time.Second).After(since) {
		return 0, p.notModified(), nil
	}

	return stateContentTypesProvided, nil, nil
}

// notModified builds the 304 terminal, carrying the resource's validator
// headers so caches can refresh their entries. Generator failures here are
// swallowed: the 304 is the primary outcome.
func (p *processor) notModified() *Response {
	resp := NewResponse(http.StatusNotModified)
	if etag, err := p.currentETag(); err == nil && etag != "" {
		resp.SetHeader("ETag", etag)
	}
	if lastMod, known, err := p.currentLastModified(); err == nil && known {
		resp.SetLastModified(lastMod)
	}

	return resp
}
