// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/restx/request"
	"github.com/gogama/restx/timeout"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// HTTP is a transport built on net/http. Its zero value is a valid
// transport which sends requests with http.DefaultClient and follows
// timeout.DefaultPolicy.
//
// The HTTPDoer is responsible for all details of sending the request
// and receiving the response, including redirects, cookies and
// connection pooling; consult its documentation for how they are
// handled. HTTP adds only two things: it bounds each request with the
// timeout policy, and it reads and closes the response body.
type HTTP struct {
	// Doer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If Doer is nil, http.DefaultClient from the standard net/http
	// package is used.
	Doer HTTPDoer
	// TimeoutPolicy specifies how to set a timeout on each request.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
}

// Send sends p and returns the response with its body fully read.
//
// An error from the Doer is returned unmodified; with an http.Client
// as the Doer it is always a *url.Error. An error reading the body, or
// a body over the ExtraMaxBodyBytes limit, is wrapped in a *url.Error.
// If there is a limit, at most one byte more than the limit is read.
func (t *HTTP) Send(p *request.Plan) (*request.Response, error) {
	ctx, cancel := sendContext(p, t.TimeoutPolicy)
	defer cancel()

	start := time.Now()
	resp, err := t.doer().Do(p.ToRequest(ctx))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()
	body := io.Reader(resp.Body)
	if n, ok := maxBodyBytes(p); ok {
		body = io.LimitReader(resp.Body, n+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, urlErrorWrap(p, err)
	}
	if err = checkBodySize(p, len(b)); err != nil {
		return nil, err
	}

	return &request.Response{
		Plan:         p,
		StatusCode:   resp.StatusCode,
		Status:       resp.Status,
		Header:       resp.Header,
		Body:         b,
		HTTPResponse: resp,
		Start:        start,
		End:          time.Now(),
	}, nil
}

// CloseIdleConnections invokes the same method on the transport's
// HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing. For example, the http.Client type forwards the call to its
// Transport, but only if the Transport itself has a
// CloseIdleConnections method.
func (t *HTTP) CloseIdleConnections() {
	type idleCloser interface {
		CloseIdleConnections()
	}
	if ic, ok := t.doer().(idleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (t *HTTP) doer() HTTPDoer {
	if t.Doer == nil {
		return http.DefaultClient
	}

	return t.Doer
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
