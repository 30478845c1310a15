// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"context"
	"time"

	"github.com/gogama/restx/request"
	"github.com/gogama/restx/transport"
	"go.uber.org/zap"
)

// A Client addresses one REST API by its base URL. It mints Resource
// values by name, issues requests by relative path, and runs every
// request through the same pipeline:
//
// 1. The default options are cloned (from WithDefaultsFunc if set,
// otherwise from WithDefaults);
//
// 2. The BeforeFunc receives the method and a clone of the caller's
// options, and its result is merged on top of the defaults, so that
// the caller wins on every collision;
//
// 3. A request plan is prepared from the merged options, or taken
// from the plan cache if it is enabled;
//
// 4. The plan is sent through the Transport, exactly once; and
//
// 5. The response passes through the AfterFunc, whose result is
// returned.
//
// Errors from the hooks and from the transport are returned unmodified.
// No request is ever retried and no response is ever cached.
//
// A Client is immutable once built by New and is safe for concurrent
// use by multiple goroutines. Join derives new clients which share the
// transport, hooks, defaults, handlers and plan cache of their parent.
type Client struct {
	base          string
	trailingSlash bool
	defaults      *request.Options
	defaultsFunc  DefaultsFunc
	before        BeforeFunc
	after         AfterFunc
	transport     Transport
	handlers      *HandlerGroup
	logger        *zap.Logger
	cache         *planCache
}

// An Option configures a Client during New.
type Option func(*Client)

// WithTrailingSlash makes the base URL, and every resource name passed
// to Resource, end in exactly one slash.
func WithTrailingSlash() Option {
	return func(c *Client) {
		c.trailingSlash = true
	}
}

// WithDefaults sets the default options. A snapshot of o is taken, so
// later changes to o have no effect on the client.
func WithDefaults(o *request.Options) Option {
	return func(c *Client) {
		c.defaults = o.Clone()
	}
}

// WithDefaultsFunc sets a function which computes the default options
// on every call. It takes precedence over WithDefaults.
func WithDefaultsFunc(f DefaultsFunc) Option {
	return func(c *Client) {
		c.defaultsFunc = f
	}
}

// WithBeforeRequest sets the hook which transforms each call's options
// before they are merged on top of the defaults.
func WithBeforeRequest(f BeforeFunc) Option {
	return func(c *Client) {
		c.before = f
	}
}

// WithAfterRequest sets the hook which transforms each response into
// the value returned from the verb call.
func WithAfterRequest(f AfterFunc) Option {
	return func(c *Client) {
		c.after = f
	}
}

// WithTransport sets the transport which sends request plans. The
// default is a transport.HTTP using http.DefaultClient.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPDoer sets the transport to a transport.HTTP which sends
// requests with d, for example a configured *http.Client.
func WithHTTPDoer(d transport.HTTPDoer) Option {
	return func(c *Client) {
		c.transport = &transport.HTTP{Doer: d}
	}
}

// WithHandlers appends the handler chains of g to those of the client.
// It may be given more than once.
func WithHandlers(g *HandlerGroup) Option {
	return func(c *Client) {
		c.handlers.Merge(g)
	}
}

// WithLogger makes the client log every call to logger, using the
// handlers returned by LogHandlers. The logging handlers run after any
// handlers installed with WithHandlers.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPlanCache enables the plan cache. Calls whose method, URL and
// merged options are equal share one prepared plan, so the plan is
// built only once.
//
// The cache is unbounded. A BeforeFunc producing different options on
// every call grows it by one entry per call.
func WithPlanCache() Option {
	return func(c *Client) {
		c.cache = &planCache{}
	}
}

// New returns a Client for the API at base.
//
// If WithTrailingSlash is given, base is made to end in exactly one
// slash; otherwise it is kept exactly as given. base is not validated:
// an unusable address results in an error from the transport when a
// request is sent.
func New(base string, opts ...Option) *Client {
	c := &Client{
		before:    NoBefore,
		after:     NoAfter,
		transport: &transport.HTTP{},
		handlers:  &HandlerGroup{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger != nil {
		c.handlers.Merge(LogHandlers(c.logger))
	} else {
		c.logger = zap.NewNop()
	}
	if c.before == nil {
		c.before = NoBefore
	}
	if c.after == nil {
		c.after = NoAfter
	}
	if c.transport == nil {
		c.transport = &transport.HTTP{}
	}
	c.base = normalizeBase(base, c.trailingSlash)
	return c
}

// URL returns the base URL of the client.
func (c *Client) URL() string {
	return c.base
}

// Resource returns the resource with the given name under the base URL.
//
// Leading slashes are stripped from name, so it is always relative to
// the base. If the client was built WithTrailingSlash, the resource URL
// ends in exactly one slash; otherwise any trailing slashes are
// removed. An empty name yields the base URL itself, exactly as URL
// returns it. That is the one exception to the trailing slash rule:
// without WithTrailingSlash the base is never altered, so
// Resource("") ends in a slash if and only if the base does.
//
// Resource does no I/O and never fails.
func (c *Client) Resource(name string) *Resource {
	return &Resource{
		url:    join(c.base, resourcePath(name, c.trailingSlash)),
		client: c,
	}
}

// Join returns a new Client whose base URL is relative joined onto the
// base URL of c. Leading slashes are stripped from relative, and any
// trailing slash it has is preserved. The new client shares everything
// else with c, including its plan cache.
func (c *Client) Join(relative string) *Client {
	c2 := new(Client)
	*c2 = *c
	c2.base = join(c.base, relative)
	return c2
}

// Head issues a HEAD to the URL relative to the base. See Do.
func (c *Client) Head(ctx context.Context, relative string, o *request.Options) (interface{}, error) {
	return c.Do(ctx, MethodHead, relative, o)
}

// Get issues a GET to the URL relative to the base. See Do.
func (c *Client) Get(ctx context.Context, relative string, o *request.Options) (interface{}, error) {
	return c.Do(ctx, MethodGet, relative, o)
}

// Post issues a POST to the URL relative to the base. See Do.
func (c *Client) Post(ctx context.Context, relative string, o *request.Options) (interface{}, error) {
	return c.Do(ctx, MethodPost, relative, o)
}

// Put issues a PUT to the URL relative to the base. See Do.
func (c *Client) Put(ctx context.Context, relative string, o *request.Options) (interface{}, error) {
	return c.Do(ctx, MethodPut, relative, o)
}

// Patch issues a PATCH to the URL relative to the base. See Do.
func (c *Client) Patch(ctx context.Context, relative string, o *request.Options) (interface{}, error) {
	return c.Do(ctx, MethodPatch, relative, o)
}

// Delete issues a DELETE to the URL relative to the base. See Do.
func (c *Client) Delete(ctx context.Context, relative string, o *request.Options) (interface{}, error) {
	return c.Do(ctx, MethodDelete, relative, o)
}

// Do issues a request with method m to the URL obtained by joining
// relative onto the base URL, as Join does. An empty relative path
// addresses the base URL itself.
//
// The options o may be nil. They are never modified: the BeforeFunc
// receives a clone.
//
// If m is not a supported method, or ctx is nil, Do returns a
// *UsageError without doing anything else. Otherwise the error, if
// any, is exactly the one returned by the BeforeFunc, by plan
// preparation, by the transport, or by the AfterFunc.
//
// Without an AfterFunc, the returned value is the *request.Response.
func (c *Client) Do(ctx context.Context, m Method, relative string, o *request.Options) (interface{}, error) {
	return c.dispatch(ctx, "do", m, join(c.base, relative), o)
}

// Call is like Do, but names the method by a string such as "get" or
// "POST". A name outside the supported set fails with a *UsageError
// wrapping ErrUnsupportedMethod, without sending anything.
func (c *Client) Call(ctx context.Context, name, relative string, o *request.Options) (interface{}, error) {
	m, err := ParseMethod(name)
	if err != nil {
		return nil, callError(err)
	}
	return c.Do(ctx, m, relative, o)
}

// CloseIdleConnections invokes the same method on the client's
// transport.
//
// If the transport has no CloseIdleConnections method, this method
// does nothing.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.transport.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) dispatch(ctx context.Context, op string, m Method, u string, o *request.Options) (interface{}, error) {
	if !m.valid() {
		return nil, &UsageError{Op: op, Method: m.Name(), Err: ErrUnsupportedMethod}
	}
	if ctx == nil {
		return nil, &UsageError{Op: op, Method: m.Name(), Err: ErrNilContext}
	}

	merged := c.defaultOptions().Clone()
	custom, err := c.before(m, o.Clone())
	if err != nil {
		return nil, err
	}
	merged.Merge(custom)

	e := request.Execution{
		Method:  m.Name(),
		URL:     u,
		Options: merged,
		Start:   time.Now(),
	}
	e.Plan, e.Cached, err = c.prepare(ctx, m, u, merged)
	if err != nil {
		return nil, err
	}
	if !e.Cached {
		c.handlers.run(AfterPrepare, &e)
	}

	c.handlers.run(BeforeSend, &e)
	e.Response, e.Err = c.transport.Send(e.Plan)
	e.End = time.Now()
	if e.Err != nil {
		e.Response = nil
	}
	c.handlers.run(AfterSend, &e)
	if e.Err != nil {
		return nil, e.Err
	}

	return c.after(e.Response)
}

func (c *Client) defaultOptions() *request.Options {
	if c.defaultsFunc != nil {
		return c.defaultsFunc()
	}

	return c.defaults
}

// prepare returns the plan for a call. The boolean result reports
// whether the plan came from the cache.
func (c *Client) prepare(ctx context.Context, m Method, u string, merged *request.Options) (*request.Plan, bool, error) {
	if c.cache != nil {
		if key, ok := request.Key(m.Name(), u, merged); ok {
			p, built, err := c.cache.get(key, func() (*request.Plan, error) {
				return request.NewPlan(m.Name(), u, merged)
			})
			if err != nil {
				return nil, false, err
			}
			return p.Clone(ctx), !built, nil
		}
	}

	p, err := request.NewPlanWithContext(ctx, m.Name(), u, merged)
	return p, false, err
}

func callError(err error) error {
	if ue, ok := err.(*UsageError); ok {
		ue.Op = "call"
	}
	return err
}
