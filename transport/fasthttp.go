// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gogama/restx/request"
	"github.com/gogama/restx/timeout"
	"github.com/valyala/fasthttp"
)

var defaultFastHTTP = &fasthttp.Client{}

// FastHTTP is a transport built on fasthttp. Its zero value is a valid
// transport which shares one package-level fasthttp client and follows
// timeout.DefaultPolicy.
//
// fasthttp has no notion of a context, so FastHTTP checks the plan's
// context before sending and otherwise only honors its deadline, by
// sending with the earlier of that deadline and the one implied by the
// timeout policy. Responses have no HTTPResponse.
type FastHTTP struct {
	// Client is the fasthttp client used to send requests. If Client
	// is nil, a shared zero-value fasthttp.Client is used.
	Client *fasthttp.Client
	// TimeoutPolicy specifies how to set a timeout on each request.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
}

// Send sends p and returns the response with a private copy of the
// body. Errors from fasthttp are returned unmodified; a body over the
// ExtraMaxBodyBytes limit fails with a *url.Error.
func (t *FastHTTP) Send(p *request.Plan) (*request.Response, error) {
	if err := p.Context().Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(p.Method)
	req.SetRequestURI(p.URL.String())
	for k, vs := range p.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if p.Host != "" {
		req.Header.SetHost(p.Host)
		req.UseHostHeader = true
	}
	if len(p.Body) > 0 {
		req.SetBody(p.Body)
	}

	start := time.Now()
	var err error
	if dl, ok := deadline(p, t.TimeoutPolicy, start); ok {
		err = t.client().DoDeadline(req, resp, dl)
	} else {
		err = t.client().Do(req, resp)
	}
	if err != nil {
		return nil, err
	}
	if err = checkBodySize(p, len(resp.Body())); err != nil {
		return nil, err
	}

	h := make(http.Header)
	resp.Header.VisitAll(func(k, v []byte) {
		h.Add(string(k), string(v))
	})
	code := resp.StatusCode()
	return &request.Response{
		Plan:       p,
		StatusCode: code,
		Status:     strconv.Itoa(code) + " " + http.StatusText(code),
		Header:     h,
		Body:       append([]byte(nil), resp.Body()...),
		Start:      start,
		End:        time.Now(),
	}, nil
}

// CloseIdleConnections closes the idle connections of the fasthttp
// client.
func (t *FastHTTP) CloseIdleConnections() {
	t.client().CloseIdleConnections()
}

func (t *FastHTTP) client() *fasthttp.Client {
	if t.Client == nil {
		return defaultFastHTTP
	}

	return t.Client
}
