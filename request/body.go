// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

const jsonContentType = "application/json"

// BodyBytes converts a generic body option to a byte slice for use as
// a request plan body.
//
// The conversion logic is:
//
// • If body is nil, a nil byte slice and no error is returned.
//
// • If body is a []byte, a copy of body and no error is returned, so
// that reusing the caller's buffer never changes a prepared plan.
//
// • If body is a string, the built-in conversion from string to byte
// slice, and no error, is returned.
//
// • If body is an io.Reader or io.ReadCloser, the result of reading
// the whole contents of the reader (and closing it if it implements
// Closer) is returned. If reading from the reader (and closing it if
// applicable) causes an error, the return value is a nil byte slice
// and the error.
//
// • Any other value is encoded as JSON, with map keys sorted so that
// equal values always encode to equal bytes. If encoding fails, the
// return value is a nil byte slice and an error.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return append([]byte(nil), x...), nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		b, err := sonic.ConfigStd.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("restx/request: can't encode body of type %T: %w", body, err)
		}
		return b, nil
	}
}

// isJSONBody reports whether BodyBytes encodes body as JSON.
func isJSONBody(body interface{}) bool {
	switch body.(type) {
	case nil, string, []byte, io.Reader:
		return false
	default:
		return true
	}
}

// isStreamBody reports whether body is consumed by reading it, which
// makes it unsuitable as part of a cache key.
func isStreamBody(body interface{}) bool {
	_, ok := body.(io.Reader)
	return ok
}
