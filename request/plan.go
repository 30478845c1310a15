// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

const (
	nilCtxMsg = "restx/request: nil context"
)

// A Plan is a prepared but unsent HTTP request: the result of resolving
// a method, a URL and a merged Options value into the exact request a
// transport should send.
//
// A Plan owns a pre-buffered body, so the same Plan can be sent any
// number of times. Plans held in a cache must be treated as read-only;
// use Clone to obtain a private copy before changing anything.
//
// Like the http.Request structure, a Plan has a context which controls
// the request and can be used to cancel it at any time.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access, including any query parameters
	// contributed by Options.Params.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent, including
	// any Authorization header derived from Options.Auth.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent.
	Body []byte

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host will be sent.
	Host string

	// Timeout is the request timeout taken from Options.Timeout. Zero
	// means the request has no timeout of its own.
	Timeout time.Duration

	// Extra holds the transport-specific options from Options.Extra.
	// Transports ignore keys they do not understand.
	Extra map[string]interface{}

	// ctx allows the request to be cancelled. It should only be
	// modified by copying the whole Plan using WithContext or Clone.
	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(method, url string, o *Options) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, url, o)
}

// NewPlanWithContext returns a new Plan given a method, URL, and
// options. A nil o is treated as empty options.
//
// The options are realized as follows: Params are added to the URL
// query; Header is copied after its field names and values are
// validated; Auth becomes a Basic Authorization header; Body is
// converted with BodyBytes, and if it was encoded as JSON and no
// Content-Type header is present, the Content-Type is set to
// application/json; Timeout and Extra are copied as they are.
func NewPlanWithContext(ctx context.Context, method, url string, o *Options) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("restx/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	if o == nil {
		o = &Options{}
	}
	if len(o.Params) > 0 {
		q := u.Query()
		for k, vs := range o.Params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	if err = validHeader(o.Header); err != nil {
		return nil, err
	}
	b, err := BodyBytes(o.Body)
	if err != nil {
		return nil, err
	}
	h := o.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	if isJSONBody(o.Body) && h.Get("Content-Type") == "" {
		h.Set("Content-Type", jsonContentType)
	}
	p := &Plan{
		ctx:     ctx,
		Method:  method,
		URL:     u,
		Header:  h,
		Body:    b,
		Host:    u.Host,
		Timeout: o.Timeout,
		Extra:   copyExtra(o.Extra),
	}
	if o.Auth != nil {
		p.SetBasicAuth(o.Auth.Username, o.Auth.Password)
	}
	return p, nil
}

// Context returns the request plan's context. To change the context,
// use WithContext or Clone.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil. The copy shares its URL, Header, Body and
// Extra with p.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// Clone returns a copy of p with its context changed to ctx, which must
// be non-nil. Unlike WithContext, the URL, Header and Extra of the copy
// are private to it, so it may be modified without affecting p. The
// body bytes are still shared and must not be modified in place.
func (p *Plan) Clone(ctx context.Context) *Plan {
	p2 := p.WithContext(ctx)
	if p.URL != nil {
		u := *p.URL
		p2.URL = &u
	}
	p2.Header = p.Header.Clone()
	p2.Extra = copyExtra(p.Extra)
	return p2
}

// SetBasicAuth sets the request plan's Authorization header to use HTTP
// Basic Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
func (p *Plan) SetBasicAuth(username, password string) {
	p.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// ToRequest creates an HTTP request corresponding to the given request
// plan. The context of the new request is set to ctx, which may not be
// nil.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	r := template.WithContext(ctx)
	r.Method = p.Method
	r.URL = p.URL
	r.Header = p.Header
	if len(p.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(p.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(p.Body)), nil
		}
		r.ContentLength = int64(len(p.Body))
	}
	r.Host = p.Host
	return r
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// We don't need to check for length more than 1 because we always
// interpret the empty string as "GET".
func validMethod(method string) bool {
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

func validHeader(h http.Header) error {
	for k, vs := range h {
		if !httpguts.ValidHeaderFieldName(k) {
			return fmt.Errorf("restx/request: invalid header field name %q", k)
		}
		for _, v := range vs {
			if !httpguts.ValidHeaderFieldValue(v) {
				return fmt.Errorf("restx/request: invalid header field value for %q", k)
			}
		}
	}
	return nil
}

func copyExtra(extra map[string]interface{}) map[string]interface{} {
	if extra == nil {
		return nil
	}
	m := make(map[string]interface{}, len(extra))
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
