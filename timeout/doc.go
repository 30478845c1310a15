// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies transports use to decide how long a
// single request plan may take. A generic interface for timeout
// policies is provided, Policy, along with several built-in policies.
package timeout
