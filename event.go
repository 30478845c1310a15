// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to observe the calls it
// makes, for example to log them.
type Event int

const (
	// AfterPrepare identifies the event that occurs after a request
	// plan has been built from the merged options.
	//
	// When the plan cache is enabled, AfterPrepare fires only when the
	// plan was actually built, never when it was found in the cache, so
	// the number of AfterPrepare events is the number of preparations.
	//
	// When Client fires AfterPrepare, the execution's options and plan
	// are set.
	AfterPrepare Event = iota
	// BeforeSend identifies the event that occurs immediately before
	// the plan is handed to the transport.
	//
	// BeforeSend handlers may replace the execution's plan, thus
	// changing the request that will be sent. They must not modify the
	// existing plan in place, since it may be shared through the plan
	// cache; use Plan.Clone to obtain a private copy.
	BeforeSend
	// AfterSend identifies the event that occurs after the transport
	// returns, regardless of whether it returned an error.
	//
	// When Client fires AfterSend, exactly one of the execution's
	// response and error fields is set, and the end time is set.
	AfterSend
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"AfterPrepare",
	"BeforeSend",
	"AfterSend",
}

// Events returns a slice containing all events which can occur during
// a call, in the order in which they would occur.
func Events() []Event {
	return []Event{
		AfterPrepare,
		BeforeSend,
		AfterSend,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
