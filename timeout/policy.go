// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/restx/request"
)

// A Policy defines a timeout policy which may be plugged into a
// transport to direct how long a request plan may take to send and
// receive.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set when sending p. A return value
	// of Infinite means no timeout is set (the plan's context may still
	// carry a deadline).
	Timeout(p *request.Plan) time.Duration
}

// Infinite is the duration a Policy returns to indicate no timeout.
const Infinite time.Duration = 1<<63 - 1

// DefaultPolicy is the default timeout policy. It uses the plan's own
// timeout, taken from the Timeout option, and otherwise sets no
// timeout.
var DefaultPolicy Policy = PlanOr(Infinite)

// Fixed constructs a timeout policy that uses the same value for every
// plan, ignoring the plan's own timeout.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

// PlanOr constructs a timeout policy that uses the plan's own timeout
// if it has one, and d otherwise.
//
// Use PlanOr to give every request a sensible upper bound while still
// letting individual calls override it with the Timeout option:
//
// 	p := PlanOr(30 * time.Second)
func PlanOr(d time.Duration) Policy {
	return planOr(d)
}

type fixed time.Duration

func (f fixed) Timeout(_ *request.Plan) time.Duration {
	return time.Duration(f)
}

type planOr time.Duration

func (d planOr) Timeout(p *request.Plan) time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}

	return time.Duration(d)
}
