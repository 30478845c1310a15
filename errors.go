// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"errors"
	"strconv"
)

var (
	// ErrUnsupportedMethod indicates an HTTP method outside the set
	// returned by Methods.
	ErrUnsupportedMethod = errors.New("unsupported method")
	// ErrNilContext indicates a nil context was passed to a verb.
	ErrNilContext = errors.New("nil context")
)

// A UsageError reports a call that can never succeed, such as one
// naming an unsupported method. Usage errors are returned before any
// options are merged or any request is sent.
//
// Errors from the transport and from hooks are never wrapped in a
// UsageError; they are returned to the caller unmodified.
type UsageError struct {
	// Op is the operation that failed, for example "call".
	Op string
	// Method is the method as given by the caller.
	Method string
	// Err is the underlying cause, typically ErrUnsupportedMethod or
	// ErrNilContext.
	Err error
}

func (e *UsageError) Error() string {
	return "restx: " + e.Op + " " + strconv.Quote(e.Method) + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *UsageError) Unwrap() error {
	return e.Err
}
