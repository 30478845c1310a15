// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"sync"

	"github.com/gogama/restx/request"
	"golang.org/x/sync/singleflight"
)

// A planCache memoizes prepared request plans by request.Key. It is
// unbounded and safe for concurrent use. Concurrent lookups of the same
// missing key build the plan only once.
//
// Cached plans are shared and must never be modified; callers Clone
// them before use.
type planCache struct {
	plans sync.Map
	group singleflight.Group
}

// get returns the plan stored under key, building and storing it with
// build if it is missing. The boolean result is true only for the
// caller whose build function actually ran.
func (pc *planCache) get(key string, build func() (*request.Plan, error)) (*request.Plan, bool, error) {
	if v, ok := pc.plans.Load(key); ok {
		return v.(*request.Plan), false, nil
	}

	built := false
	v, err, _ := pc.group.Do(key, func() (interface{}, error) {
		if v, ok := pc.plans.Load(key); ok {
			return v, nil
		}
		p, err := build()
		if err != nil {
			return nil, err
		}
		built = true
		pc.plans.Store(key, p)
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.(*request.Plan), built, nil
}

// len returns the number of cached plans.
func (pc *planCache) len() int {
	n := 0
	pc.plans.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
