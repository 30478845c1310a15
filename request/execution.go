// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/gogama/restx/transient"
)

// An Execution represents the state of a single call made through a
// restx client, from the moment the options are merged until the
// transport returns.
//
// Event handlers receive the Execution as it progresses. They should
// treat its fields as read-only, with one exception: a handler for the
// BeforeSend event may replace Plan (for example, to sign the request),
// provided it does not modify the original Plan, which may be shared
// through the plan cache.
type Execution struct {
	// Method is the HTTP method of the call, in upper case.
	Method string

	// URL is the fully resolved address of the call.
	URL string

	// Options is the merged option set: the client defaults with the
	// output of the BeforeRequest hook applied on top.
	Options *Options

	// Plan is the prepared plan. It is nil until preparation completes.
	Plan *Plan

	// Cached indicates whether Plan came from the plan cache.
	Cached bool

	// Response is the transport's response. It is nil until the
	// transport returns, and remains nil if the transport failed.
	Response *Response

	// Err is the error returned by the transport, if any.
	Err error

	// Start is the time the call started.
	Start time.Time

	// End is the time the transport returned. It is zero until then.
	End time.Time
}

// StatusCode returns the status code of the response, or 0 if there is
// no response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the response headers, or a nil header if there is no
// response. A nil header is always safe for read-only operations.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the transport has returned.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}
