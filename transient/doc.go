// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient sorts the errors returned by transports into
// categories: timeouts, cancellation, refused, reset and closed
// connections. restx reports the category in its log handlers and in
// request.Execution.Timeout, and never alters the error it classifies.
//
// Categorize understands errors from net/http and fasthttp alike.
package transient
