// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package restx provides a thin client for REST APIs: name a resource,
call a verb on it, and restx builds the URL, merges your default
options and sends the request.

Create a Client for the base URL of the API to begin making requests.

	api := restx.New("https://api.example.com/v1")
	resp, err := api.Resource("users").Get(ctx, nil)
	...
	resp, err := api.Post(ctx, "users", &request.Options{
		Body: map[string]string{"name": "ham"},
	})

Options supplied to a call are merged on top of the client defaults,
so the call wins on every collision:

	api := restx.New("https://api.example.com/v1",
		restx.WithDefaults(&request.Options{
			Auth: &request.Credentials{Username: "user", Password: "pass"},
		}))

To transform every call's options or every response, install hooks:

	api := restx.New("https://api.example.com/v1",
		restx.WithBeforeRequest(func(m restx.Method, o *request.Options) (*request.Options, error) {
			return o.SetExtra(transport.ExtraMaxBodyBytes, 1<<20), nil
		}),
		restx.WithAfterRequest(restx.DecodeJSON))

For control over how requests are sent, use one of the transports in
package transport, or any other Transport:

	api := restx.New("https://api.example.com/v1",
		restx.WithTransport(&transport.Resty{Client: resty.New()}))

To observe the calls a client makes, install a handler into the
appropriate handler chain, or log them with zap:

	handlers := &restx.HandlerGroup{}
	handlers.PushBack(restx.AfterSend, restx.HandlerFunc(
		func(_ restx.Event, e *request.Execution) {
			fmt.Println(e.Method, e.URL, e.StatusCode())
		}))
	api := restx.New("https://api.example.com/v1",
		restx.WithHandlers(handlers),
		restx.WithLogger(logger))

Package restx never retries a request and never caches a response. With
WithPlanCache, it does cache the prepared request plan, so that calls
with equal method, URL and options share the cost of encoding the body
and validating the headers.
*/
package restx
