// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"context"

	"github.com/gogama/restx/request"
)

// Transport is the interface that wraps the basic Send method.
//
// Send sends a prepared request plan and returns the fully-read
// response. The plan's context governs cancellation. Implementations
// must not modify the plan, which may be shared through the plan
// cache, and restx returns any error from Send to the caller
// unmodified.
//
// Package transport provides implementations backed by net/http,
// go-resty and fasthttp.
type Transport interface {
	Send(p *request.Plan) (*request.Response, error)
}

// The TransportFunc type is an adapter to allow the use of ordinary
// functions as transports. If f is a function with appropriate
// signature, then TransportFunc(f) is a Transport that calls f.
type TransportFunc func(p *request.Plan) (*request.Response, error)

// Send calls f(p).
func (f TransportFunc) Send(p *request.Plan) (*request.Response, error) {
	return f(p)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// Caller is the interface implemented by Resource. It is the smallest
// surface needed to dispatch any supported method against one address.
type Caller interface {
	URL() string
	Do(ctx context.Context, m Method, o *request.Options) (interface{}, error)
}
