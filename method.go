// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"fmt"
	"strings"
)

// A Method is one of the HTTP methods a Resource can dispatch. The set
// of methods is closed: any other value is a usage error.
type Method int

const (
	// MethodHead is the HTTP HEAD method.
	MethodHead Method = iota
	// MethodGet is the HTTP GET method.
	MethodGet
	// MethodPost is the HTTP POST method.
	MethodPost
	// MethodPut is the HTTP PUT method.
	MethodPut
	// MethodPatch is the HTTP PATCH method.
	MethodPatch
	// MethodDelete is the HTTP DELETE method.
	MethodDelete
	// methodSentinel provides the total number of methods typed as a
	// Method.
	methodSentinel

	// numMethods provides the total number of methods typed as an int.
	numMethods = int(methodSentinel)
)

var methodNames = []string{
	"HEAD",
	"GET",
	"POST",
	"PUT",
	"PATCH",
	"DELETE",
}

// Methods returns a slice containing all supported methods.
func Methods() []Method {
	return []Method{
		MethodHead,
		MethodGet,
		MethodPost,
		MethodPut,
		MethodPatch,
		MethodDelete,
	}
}

// ParseMethod returns the Method whose name is name, ignoring case. If
// name is not a supported method, the error is a *UsageError wrapping
// ErrUnsupportedMethod.
func ParseMethod(name string) (Method, error) {
	upper := strings.ToUpper(name)
	for i, n := range methodNames {
		if n == upper {
			return Method(i), nil
		}
	}

	return methodSentinel, &UsageError{Op: "parse", Method: name, Err: ErrUnsupportedMethod}
}

// Name returns the upper-case HTTP name of the method, for example
// "GET". Values outside the supported set are named "Method(n)".
func (m Method) Name() string {
	if !m.valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}

	return methodNames[int(m)]
}

// String returns the name of the method.
func (m Method) String() string {
	return m.Name()
}

func (m Method) valid() bool {
	return m >= 0 && int(m) < numMethods
}
