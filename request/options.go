// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"net/url"
	"time"
)

// Credentials is a username and password pair sent using HTTP Basic
// Authentication.
type Credentials struct {
	Username string
	Password string
}

// Options is the option bag for a single logical request. A client
// keeps one Options value as its defaults and merges each call's
// Options on top of it.
//
// The named fields cover the options every transport understands.
// Extra carries anything else through to the transport untouched: the
// restx client never interprets Extra keys, it only merges them. The
// built-in transports read only transport.ExtraMaxBodyBytes; other keys
// are for custom transports.
type Options struct {
	// Header contains request header fields to send.
	Header http.Header

	// Auth, if non-nil, sets the Authorization header to use HTTP
	// Basic Authentication with the given credentials.
	Auth *Credentials

	// Timeout limits the time spent sending the request and reading
	// the response. Zero means no limit beyond what the transport or
	// the context impose.
	Timeout time.Duration

	// Params are added to the query string of the request URL.
	Params url.Values

	// Body is the request body. It may be nil, a string, a []byte, an
	// io.Reader, or any other value, which is encoded as JSON. See
	// BodyBytes.
	Body interface{}

	// Extra holds transport-specific options. With the plan cache
	// enabled, requests are only cached when every Extra value is nil,
	// a bool, a string, a number, or a slice or map of those; see Key.
	Extra map[string]interface{}
}

// Clone returns a deep copy of o. Header, Params and Extra are copied
// so the clone can be modified without affecting o. Body and the
// values within Extra are copied by reference.
//
// Clone of a nil Options returns a new, empty Options.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}

	o2 := &Options{
		Header:  o.Header.Clone(),
		Timeout: o.Timeout,
		Body:    o.Body,
	}
	if o.Auth != nil {
		auth := *o.Auth
		o2.Auth = &auth
	}
	if o.Params != nil {
		o2.Params = make(url.Values, len(o.Params))
		for k, v := range o.Params {
			o2.Params[k] = append([]string(nil), v...)
		}
	}
	if o.Extra != nil {
		o2.Extra = make(map[string]interface{}, len(o.Extra))
		for k, v := range o.Extra {
			o2.Extra[k] = v
		}
	}
	return o2
}

// Merge applies other on top of o, so that other wins on every
// collision.
//
// Each named field that is set in other replaces the corresponding
// field of o wholesale: a Header in other replaces o's Header rather
// than being combined with it. Extra is merged key by key. A nil other
// leaves o unchanged.
func (o *Options) Merge(other *Options) {
	if other == nil {
		return
	}

	if other.Header != nil {
		o.Header = other.Header
	}
	if other.Auth != nil {
		o.Auth = other.Auth
	}
	if other.Timeout != 0 {
		o.Timeout = other.Timeout
	}
	if other.Params != nil {
		o.Params = other.Params
	}
	if other.Body != nil {
		o.Body = other.Body
	}
	if len(other.Extra) > 0 && o.Extra == nil {
		o.Extra = make(map[string]interface{}, len(other.Extra))
	}
	for k, v := range other.Extra {
		o.Extra[k] = v
	}
}

// SetExtra sets an Extra key, allocating the map if necessary, and
// returns o to allow chaining.
func (o *Options) SetExtra(key string, value interface{}) *Options {
	if o.Extra == nil {
		o.Extra = make(map[string]interface{})
	}
	o.Extra[key] = value
	return o
}
