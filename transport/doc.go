// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport provides the transports which send restx request
plans: HTTP, built on net/http; Resty, built on go-resty; and FastHTTP,
built on fasthttp.

Every transport reads the whole response body into the returned
request.Response, applies a timeout.Policy to each request, sends the
plan's Host, and returns errors from the underlying client unmodified.
Of the plan's Extra options, all three honor ExtraMaxBodyBytes and
ignore every other key.

	api := restx.New("https://api.example.com",
		restx.WithTransport(&transport.HTTP{
			Doer:          &http.Client{},
			TimeoutPolicy: timeout.PlanOr(30 * time.Second),
		}))
*/
package transport
