// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the value types that flow through a restx
client: Options (the option bag a caller supplies), Plan (a prepared,
unsent request), Response (what a transport returns) and Execution
(the state of one call, handed to event handlers).

Options is the typed replacement for a keyword-argument bag. Its named
fields cover what every transport understands, and Extra carries
transport-specific keys through untouched:

	o := &request.Options{
		Header: http.Header{"Accept": {"application/json"}},
		Params: url.Values{"page": {"2"}},
		Auth:   &request.Credentials{Username: "user", Password: "pass"},
	}

A client merges a call's Options on top of its default Options with
Merge, then turns the result into a Plan:

	p, err := request.NewPlanWithContext(ctx, "GET", "https://api.example.com/users", o)

Plans are immutable once prepared and can be cached. Key computes a
canonical cache key for the plan NewPlan would build, independent of
map insertion order.
*/
package request
