// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"io"
	"syscall"

	"github.com/valyala/fasthttp"
)

// A Category describes why a request attempt failed, as reported by
// Categorize.
//
// Not means either that there was no error or that the error says
// nothing about the network, for example a malformed URL or a failing
// hook. Canceled means the caller gave up. The remaining categories are
// transient: the same request sent again has some prospect of success.
type Category int

const (
	// Not indicates a nil error or a non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error or one of its
	// causes has a Timeout method reporting true, or is a fasthttp dial
	// or TLS handshake timeout.
	Timeout
	// Canceled indicates the request context was canceled.
	Canceled
	// ConnRefused indicates the remote host refused the connection
	// (ECONNREFUSED), typically because the service is not listening yet.
	ConnRefused
	// ConnReset indicates the remote host reset an active connection
	// (ECONNRESET).
	ConnReset
	// ConnClosed indicates the connection was closed before a complete
	// response was read.
	ConnClosed
	categorySentinel
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"Canceled",
	"ConnRefused",
	"ConnReset",
	"ConnClosed",
}

// causes maps sentinel errors, compared with errors.Is, to categories.
// The first match wins.
var causes = []struct {
	err      error
	category Category
}{
	{context.Canceled, Canceled},
	{fasthttp.ErrDialTimeout, Timeout},
	{fasthttp.ErrTLSHandshakeTimeout, Timeout},
	{syscall.ECONNREFUSED, ConnRefused},
	{syscall.ECONNRESET, ConnReset},
	{syscall.EPIPE, ConnClosed},
	{fasthttp.ErrConnectionClosed, ConnClosed},
	{io.ErrUnexpectedEOF, ConnClosed},
}

// Categorize returns the category of err, looking through wrapped
// causes. A nil error is Not.
//
// Timeouts are recognized first, so a timeout wrapping a connection
// error is a Timeout. Categorize never consults a Temporary method.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	for _, c := range causes {
		if errors.Is(err, c.err) {
			return c.category
		}
	}

	return Not
}

// Transient reports whether a request which failed with an error of
// category c has some prospect of succeeding if sent again.
func (c Category) Transient() bool {
	return c != Not && c != Canceled && c.valid()
}

// String returns the name of the category, or "Unknown" for values
// outside the defined set.
func (c Category) String() string {
	if !c.valid() {
		return "Unknown"
	}
	return categoryNames[c]
}

func (c Category) valid() bool {
	return c >= Not && c < categorySentinel
}
