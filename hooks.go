// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"github.com/gogama/restx/request"
)

// A BeforeFunc transforms the options supplied to a single call before
// they are merged on top of the client defaults. It receives a private
// clone of the caller's options, so it may modify and return it, or
// return a different value altogether. A nil return is treated as empty
// options.
//
// A non-nil error aborts the call and is returned to the caller
// unmodified.
type BeforeFunc func(m Method, o *request.Options) (*request.Options, error)

// An AfterFunc transforms a response into the value returned from a
// verb call. A non-nil error is returned to the caller unmodified.
type AfterFunc func(r *request.Response) (interface{}, error)

// A DefaultsFunc computes the default options for a call. It is
// consulted once per call, so it can supply values that change over
// time, such as a refreshed authorization token. The returned value is
// cloned before use and is never modified.
type DefaultsFunc func() *request.Options

// NoBefore is the default BeforeFunc. It returns o unchanged.
func NoBefore(_ Method, o *request.Options) (*request.Options, error) {
	return o, nil
}

// NoAfter is the default AfterFunc. It returns r itself, so verb calls
// on a client without an AfterFunc return a *request.Response.
func NoAfter(r *request.Response) (interface{}, error) {
	return r, nil
}

// DecodeJSON is an AfterFunc that decodes the response body as JSON
// into a generic value: a map[string]interface{}, []interface{},
// string, float64, bool or nil. An empty body decodes to nil.
//
// DecodeJSON never looks at the status code; a 404 with a JSON error
// document decodes just like a 200.
func DecodeJSON(r *request.Response) (interface{}, error) {
	if len(r.Body) == 0 {
		return nil, nil
	}

	var v interface{}
	if err := r.JSON(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeJSONInto returns an AfterFunc that decodes the response body as
// JSON into a fresh value obtained from newValue, and returns that
// value. newValue should return a pointer.
func DecodeJSONInto(newValue func() interface{}) AfterFunc {
	return func(r *request.Response) (interface{}, error) {
		v := newValue()
		if len(r.Body) == 0 {
			return v, nil
		}
		if err := r.JSON(v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
