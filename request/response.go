// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// A Response is the fully-read result of sending a Plan through a
// transport.
//
// Every transport fills in the status, headers and body. HTTPResponse
// is only set by transports built on net/http, and its Body has already
// been read and closed.
type Response struct {
	// Plan is the plan that was sent to obtain this response.
	Plan *Plan

	// StatusCode is the HTTP status code, e.g. 200.
	StatusCode int

	// Status is the HTTP status line text, e.g. "200 OK".
	Status string

	// Header contains the response header fields.
	Header http.Header

	// Body is the complete response body.
	Body []byte

	// HTTPResponse is the underlying net/http response, if any.
	HTTPResponse *http.Response

	// Start is the time the transport began sending the plan.
	Start time.Time

	// End is the time the transport finished reading the body.
	End time.Time
}

// OK indicates whether the status code is in the 2XX range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// String returns the body as a string.
func (r *Response) String() string {
	return string(r.Body)
}

// JSON decodes the body as JSON into v.
func (r *Response) JSON(v interface{}) error {
	return sonic.Unmarshal(r.Body, v)
}

// Duration returns the time the transport spent on the request, or zero
// if the start or end time is unknown.
func (r *Response) Duration() time.Duration {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}
