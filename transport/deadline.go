// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"time"

	"github.com/gogama/restx/request"
	"github.com/gogama/restx/timeout"
)

func policyOrDefault(policy timeout.Policy) timeout.Policy {
	if policy == nil {
		return timeout.DefaultPolicy
	}

	return policy
}

// sendContext returns the context to send p with: the plan's context,
// bounded by the timeout policy unless the policy sets no timeout.
func sendContext(p *request.Plan, policy timeout.Policy) (context.Context, context.CancelFunc) {
	d := policyOrDefault(policy).Timeout(p)
	if d <= 0 || d == timeout.Infinite {
		return context.WithCancel(p.Context())
	}

	return context.WithTimeout(p.Context(), d)
}

// deadline returns the earlier of the plan context's deadline and the
// deadline implied by the timeout policy. The boolean result is false
// if there is neither.
func deadline(p *request.Plan, policy timeout.Policy, now time.Time) (time.Time, bool) {
	var dl time.Time
	ok := false
	if d := policyOrDefault(policy).Timeout(p); d > 0 && d != timeout.Infinite {
		dl, ok = now.Add(d), true
	}
	if ctxDl, has := p.Context().Deadline(); has && (!ok || ctxDl.Before(dl)) {
		dl, ok = ctxDl, true
	}
	return dl, ok
}
