// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"context"

	"github.com/gogama/restx/request"
)

// A Resource is one fully addressed REST endpoint. Obtain a Resource
// from Client.Resource; each call returns a new value.
//
// A Resource holds nothing but its address and a reference to the
// Client that created it, so it is cheap to create and safe for
// concurrent use. Every verb method sends exactly one request through
// the client's transport, using the client's defaults and hooks.
type Resource struct {
	url    string
	client *Client
}

// URL returns the address of the resource.
func (r *Resource) URL() string {
	return r.url
}

// Resource returns the sub-resource of r with the given name,
// normalized the same way as Client.Resource. An empty name yields a
// Resource with the same URL as r.
func (r *Resource) Resource(name string) *Resource {
	return &Resource{
		url:    join(r.url, resourcePath(name, r.client.trailingSlash)),
		client: r.client,
	}
}

// Head issues a HEAD to the resource. See Client.Do.
func (r *Resource) Head(ctx context.Context, o *request.Options) (interface{}, error) {
	return r.Do(ctx, MethodHead, o)
}

// Get issues a GET to the resource. See Client.Do.
func (r *Resource) Get(ctx context.Context, o *request.Options) (interface{}, error) {
	return r.Do(ctx, MethodGet, o)
}

// Post issues a POST to the resource. See Client.Do.
func (r *Resource) Post(ctx context.Context, o *request.Options) (interface{}, error) {
	return r.Do(ctx, MethodPost, o)
}

// Put issues a PUT to the resource. See Client.Do.
func (r *Resource) Put(ctx context.Context, o *request.Options) (interface{}, error) {
	return r.Do(ctx, MethodPut, o)
}

// Patch issues a PATCH to the resource. See Client.Do.
func (r *Resource) Patch(ctx context.Context, o *request.Options) (interface{}, error) {
	return r.Do(ctx, MethodPatch, o)
}

// Delete issues a DELETE to the resource. See Client.Do.
func (r *Resource) Delete(ctx context.Context, o *request.Options) (interface{}, error) {
	return r.Do(ctx, MethodDelete, o)
}

// Do issues a request with method m to the resource, following the
// same pipeline as Client.Do.
func (r *Resource) Do(ctx context.Context, m Method, o *request.Options) (interface{}, error) {
	return r.client.dispatch(ctx, "do", m, r.url, o)
}

// Call is like Do, but names the method by a string such as "get" or
// "POST". A name outside the supported set fails with a *UsageError
// wrapping ErrUnsupportedMethod, without sending anything.
func (r *Resource) Call(ctx context.Context, name string, o *request.Options) (interface{}, error) {
	m, err := ParseMethod(name)
	if err != nil {
		return nil, callError(err)
	}
	return r.Do(ctx, m, o)
}
