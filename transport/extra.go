// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"

	"github.com/gogama/restx/request"
)

// ExtraMaxBodyBytes is the request.Options.Extra key which limits the
// size of the response body. Its value is an int or int64 number of
// bytes; a negative value means no limit. A response whose body is
// longer than the limit fails with a *url.Error wrapping
// ErrBodyTooLarge.
//
// It is the only Extra key the transports in this package read. Any
// other key is ignored, and is only useful to a custom Transport.
const ExtraMaxBodyBytes = "transport.maxBodyBytes"

// ErrBodyTooLarge is the cause of the error returned when a response
// body exceeds the ExtraMaxBodyBytes limit.
var ErrBodyTooLarge = errors.New("restx/transport: response body too large")

// maxBodyBytes returns the ExtraMaxBodyBytes limit of p, if it has one.
func maxBodyBytes(p *request.Plan) (int64, bool) {
	var n int64
	switch x := p.Extra[ExtraMaxBodyBytes].(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	default:
		return 0, false
	}
	return n, n >= 0
}

// checkBodySize fails with ErrBodyTooLarge if a body of size bytes is
// over the limit of p.
func checkBodySize(p *request.Plan, size int) error {
	if n, ok := maxBodyBytes(p); ok && int64(size) > n {
		return urlErrorWrap(p, ErrBodyTooLarge)
	}
	return nil
}
