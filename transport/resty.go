// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gogama/restx/request"
	"github.com/gogama/restx/timeout"
)

var defaultResty = sync.OnceValue(func() *resty.Client {
	return resty.New().SetPreRequestHook(applyHost)
})

type hostKey struct{}

// Resty is a transport built on go-resty. Its zero value is a valid
// transport which shares one package-level resty client and follows
// timeout.DefaultPolicy.
//
// Configure retries, proxies and the like on the resty client itself.
// Resty only sets the method, URL, host, headers and body of each
// request, bounds it with the timeout policy, and enforces the
// ExtraMaxBodyBytes limit.
type Resty struct {
	// Client is the resty client used to send requests. If Client is
	// nil, a shared client created with resty.New is used.
	//
	// resty offers no per-request way to set the Host of the raw
	// request, so on first use Resty installs a pre-request hook on
	// Client which applies the plan's Host. It replaces any pre-request
	// hook already set on Client.
	Client *resty.Client
	// TimeoutPolicy specifies how to set a timeout on each request.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy

	hookOnce sync.Once
}

// Send sends p and returns the response. Errors from resty are
// returned unmodified; a body over the ExtraMaxBodyBytes limit fails
// with a *url.Error.
func (t *Resty) Send(p *request.Plan) (*request.Response, error) {
	ctx, cancel := sendContext(p, t.TimeoutPolicy)
	defer cancel()
	if p.Host != "" {
		ctx = context.WithValue(ctx, hostKey{}, p.Host)
	}

	r := t.client().R().SetContext(ctx)
	for k, vs := range p.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if len(p.Body) > 0 {
		r.SetBody(p.Body)
	}

	start := time.Now()
	resp, err := r.Execute(p.Method, p.URL.String())
	if err != nil {
		return nil, err
	}
	if err = checkBodySize(p, len(resp.Body())); err != nil {
		return nil, err
	}

	return &request.Response{
		Plan:         p,
		StatusCode:   resp.StatusCode(),
		Status:       resp.Status(),
		Header:       resp.Header(),
		Body:         resp.Body(),
		HTTPResponse: resp.RawResponse,
		Start:        start,
		End:          time.Now(),
	}, nil
}

// CloseIdleConnections closes the idle connections of the resty
// client's underlying http.Client.
func (t *Resty) CloseIdleConnections() {
	t.client().GetClient().CloseIdleConnections()
}

func (t *Resty) client() *resty.Client {
	if t.Client == nil {
		return defaultResty()
	}

	t.hookOnce.Do(func() {
		t.Client.SetPreRequestHook(applyHost)
	})
	return t.Client
}

// applyHost sets the Host of the raw request from the context value
// put there by Send.
func applyHost(_ *resty.Client, r *http.Request) error {
	if host, ok := r.Context().Value(hostKey{}).(string); ok {
		r.Host = host
	}
	return nil
}
