// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogama/restx/request"
	"github.com/gogama/restx/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("zero options", func(t *testing.T) {
		c := New("http://h/a")
		assert.Equal(t, "http://h/a", c.URL())
		assert.IsType(t, &transport.HTTP{}, c.transport)
		assert.NotNil(t, c.before)
		assert.NotNil(t, c.after)
		assert.NotNil(t, c.handlers)
		assert.NotNil(t, c.logger)
		assert.Nil(t, c.cache)
		assert.Equal(t, &request.Options{}, c.defaultOptions().Clone())
	})
	t.Run("trailing slash", func(t *testing.T) {
		testCases := []struct {
			base     string
			expected string
		}{
			{"http://h/a", "http://h/a/"},
			{"http://h/a/", "http://h/a/"},
			{"http://h/a///", "http://h/a/"},
			{"http://h/a?x=1", "http://h/a/?x=1"},
			{"", "/"},
		}
		for _, testCase := range testCases {
			t.Run(testCase.base, func(t *testing.T) {
				assert.Equal(t, testCase.expected, New(testCase.base, WithTrailingSlash()).URL())
			})
		}
	})
	t.Run("defaults are a snapshot", func(t *testing.T) {
		o := &request.Options{Header: http.Header{"A": {"1"}}}
		c := New("http://h", WithDefaults(o))
		o.Header.Set("A", "2")
		assert.Equal(t, "1", c.defaults.Header.Get("A"))
	})
	t.Run("nil hooks and transport fall back", func(t *testing.T) {
		c := New("http://h", WithBeforeRequest(nil), WithAfterRequest(nil), WithTransport(nil))
		assert.NotNil(t, c.before)
		assert.NotNil(t, c.after)
		assert.IsType(t, &transport.HTTP{}, c.transport)
	})
	t.Run("HTTPDoer", func(t *testing.T) {
		doer := &http.Client{}
		c := New("http://h", WithHTTPDoer(doer))
		require.IsType(t, &transport.HTTP{}, c.transport)
		assert.Same(t, doer, c.transport.(*transport.HTTP).Doer)
	})
}

func TestClient_Resource(t *testing.T) {
	t.Run("without trailing slash", func(t *testing.T) {
		c := New("http://h/a/")
		testCases := []struct {
			name     string
			expected string
		}{
			{"x", "http://h/a/x"},
			{"x/", "http://h/a/x"},
			{"/x", "http://h/a/x"},
			{"//x//", "http://h/a/x"},
			{"x/y", "http://h/a/x/y"},
			{"", "http://h/a/"},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				r := c.Resource(testCase.name)
				assert.Equal(t, testCase.expected, r.URL())
				assert.Same(t, c, r.client)
			})
		}
	})
	t.Run("with trailing slash", func(t *testing.T) {
		c := New("http://h/a", WithTrailingSlash())
		for _, name := range []string{"x", "x/", "/x", "/x//"} {
			t.Run(name, func(t *testing.T) {
				assert.Equal(t, "http://h/a/x/", c.Resource(name).URL())
			})
		}
	})
	t.Run("empty name is the base unaltered", func(t *testing.T) {
		assert.Equal(t, "http://h/a/", New("http://h/a/").Resource("").URL())
		assert.Equal(t, "http://h/a", New("http://h/a").Resource("").URL())
		assert.Equal(t, "http://h/a/", New("http://h/a", WithTrailingSlash()).Resource("").URL())
		assert.Equal(t, "http://h/a/x", New("http://h/a").Resource("x").Resource("").URL())
	})
	t.Run("fresh value every time", func(t *testing.T) {
		c := New("http://h")
		assert.NotSame(t, c.Resource("x"), c.Resource("x"))
	})
	t.Run("sub-resource", func(t *testing.T) {
		assert.Equal(t, "http://h/users/1", New("http://h").Resource("users").Resource("/1").URL())
		assert.Equal(t, "http://h/users/1/", New("http://h", WithTrailingSlash()).Resource("users").Resource("1").URL())
	})
}

func TestClient_Join(t *testing.T) {
	c := New("http://h/a", WithPlanCache())
	j := c.Join("/b/")
	assert.Equal(t, "http://h/a/b/", j.URL())
	assert.Equal(t, "http://h/a", c.URL())
	assert.Same(t, c.cache, j.cache)
	assert.Same(t, c.handlers, j.handlers)
	assert.Equal(t, "http://h/a/b/c", j.Join("c").URL())
	assert.Equal(t, "http://other/", c.Join("http://other/").URL())
}

func TestClient_Verbs(t *testing.T) {
	verbs := []struct {
		method Method
		client func(c *Client) (interface{}, error)
		res    func(r *Resource) (interface{}, error)
	}{
		{MethodHead,
			func(c *Client) (interface{}, error) { return c.Head(context.Background(), "b", nil) },
			func(r *Resource) (interface{}, error) { return r.Head(context.Background(), nil) }},
		{MethodGet,
			func(c *Client) (interface{}, error) { return c.Get(context.Background(), "b", nil) },
			func(r *Resource) (interface{}, error) { return r.Get(context.Background(), nil) }},
		{MethodPost,
			func(c *Client) (interface{}, error) { return c.Post(context.Background(), "b", nil) },
			func(r *Resource) (interface{}, error) { return r.Post(context.Background(), nil) }},
		{MethodPut,
			func(c *Client) (interface{}, error) { return c.Put(context.Background(), "b", nil) },
			func(r *Resource) (interface{}, error) { return r.Put(context.Background(), nil) }},
		{MethodPatch,
			func(c *Client) (interface{}, error) { return c.Patch(context.Background(), "b", nil) },
			func(r *Resource) (interface{}, error) { return r.Patch(context.Background(), nil) }},
		{MethodDelete,
			func(c *Client) (interface{}, error) { return c.Delete(context.Background(), "b", nil) },
			func(r *Resource) (interface{}, error) { return r.Delete(context.Background(), nil) }},
	}
	for _, verb := range verbs {
		t.Run(verb.method.Name(), func(t *testing.T) {
			mockTransport := newMockTransport(t)
			c := New("http://h/a/", WithTransport(mockTransport))
			resp := &request.Response{StatusCode: 200}
			mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
				return p.Method == verb.method.Name() && p.URL.String() == "http://h/a/b"
			})).Return(resp, nil).Twice()
			x, err := verb.client(c)
			assert.NoError(t, err)
			assert.Same(t, resp, x)
			x, err = verb.res(c.Resource("b"))
			assert.NoError(t, err)
			assert.Same(t, resp, x)
			mockTransport.AssertExpectations(t)
		})
	}
}

func TestClient_Do(t *testing.T) {
	t.Run("join strips leading slashes", func(t *testing.T) {
		for _, rel := range []string{"b", "/b", "//b"} {
			t.Run(rel, func(t *testing.T) {
				mockTransport := newMockTransport(t)
				c := New("http://h/a/", WithTransport(mockTransport))
				mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
					return p.URL.String() == "http://h/a/b"
				})).Return(&request.Response{}, nil).Once()
				_, err := c.Get(context.Background(), rel, nil)
				assert.NoError(t, err)
				mockTransport.AssertExpectations(t)
			})
		}
	})
	t.Run("empty relative path addresses the base", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		c := New("http://domain.com/", WithTransport(mockTransport))
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.URL.String() == "http://domain.com/"
		})).Return(&request.Response{}, nil).Once()
		_, err := c.Get(context.Background(), "", nil)
		assert.NoError(t, err)
		mockTransport.AssertExpectations(t)
	})
	t.Run("defaults are overridden by call options", func(t *testing.T) {
		a := &request.Credentials{Username: "user", Password: "password"}
		b := &request.Credentials{Username: "defaults", Password: "overridden"}
		mockTransport := newMockTransport(t)
		c := New("http://h/", WithTransport(mockTransport), WithDefaults(&request.Options{Auth: a}))
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Header.Get("Authorization") == basicAuth(b)
		})).Return(&request.Response{}, nil).Once()
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Header.Get("Authorization") == basicAuth(a)
		})).Return(&request.Response{}, nil).Twice()
		_, err := c.Get(context.Background(), "x", &request.Options{Auth: b})
		assert.NoError(t, err)
		_, err = c.Get(context.Background(), "x", &request.Options{})
		assert.NoError(t, err)
		_, err = c.Get(context.Background(), "x", nil)
		assert.NoError(t, err)
		mockTransport.AssertExpectations(t)
	})
	t.Run("hook output is merged on empty defaults", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		var merged *request.Options
		handlers := &HandlerGroup{}
		handlers.PushBack(AfterPrepare, HandlerFunc(func(_ Event, e *request.Execution) {
			merged = e.Options
		}))
		c := New("http://h/",
			WithTransport(mockTransport),
			WithDefaults(&request.Options{Timeout: time.Hour}),
			WithDefaultsFunc(func() *request.Options { return &request.Options{} }),
			WithBeforeRequest(func(m Method, o *request.Options) (*request.Options, error) {
				assert.Equal(t, MethodGet, m)
				return o.SetExtra("test", "test"), nil
			}),
			WithHandlers(handlers))
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Extra["test"] == "test" && p.Timeout == 0
		})).Return(&request.Response{}, nil).Once()
		_, err := c.Get(context.Background(), "", nil)
		assert.NoError(t, err)
		assert.Equal(t, &request.Options{Extra: map[string]interface{}{"test": "test"}}, merged)
		mockTransport.AssertExpectations(t)
	})
	t.Run("caller options are not modified", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		c := New("http://h/",
			WithTransport(mockTransport),
			WithBeforeRequest(func(_ Method, o *request.Options) (*request.Options, error) {
				o.Header.Set("X-Hook", "1")
				return o.SetExtra("hook", true), nil
			}))
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Header.Get("X-Hook") == "1" && p.Header.Get("X-Caller") == "1"
		})).Return(&request.Response{}, nil).Once()
		o := &request.Options{Header: http.Header{"X-Caller": {"1"}}}
		_, err := c.Post(context.Background(), "x", o)
		assert.NoError(t, err)
		assert.Equal(t, &request.Options{Header: http.Header{"X-Caller": {"1"}}}, o)
		mockTransport.AssertExpectations(t)
	})
	t.Run("DefaultsFunc is consulted on every call", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		var n int32
		c := New("http://h/",
			WithTransport(mockTransport),
			WithDefaultsFunc(func() *request.Options {
				i := atomic.AddInt32(&n, 1)
				return &request.Options{Header: http.Header{"X-Token": {strings.Repeat("t", int(i))}}}
			}))
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Header.Get("X-Token") == "t"
		})).Return(&request.Response{}, nil).Once()
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Header.Get("X-Token") == "tt"
		})).Return(&request.Response{}, nil).Once()
		_, err := c.Get(context.Background(), "", nil)
		assert.NoError(t, err)
		_, err = c.Get(context.Background(), "", nil)
		assert.NoError(t, err)
		mockTransport.AssertExpectations(t)
	})
	t.Run("unsupported method", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		c := New("http://h/", WithTransport(mockTransport))
		for _, m := range []Method{Method(-1), methodSentinel, Method(99)} {
			x, err := c.Do(context.Background(), m, "", nil)
			assert.Nil(t, x)
			var usageErr *UsageError
			require.True(t, errors.As(err, &usageErr))
			assert.Equal(t, "do", usageErr.Op)
			assert.ErrorIs(t, err, ErrUnsupportedMethod)
			x, err = c.Resource("x").Do(context.Background(), m, nil)
			assert.Nil(t, x)
			assert.ErrorIs(t, err, ErrUnsupportedMethod)
		}
		mockTransport.AssertNotCalled(t, "Send", mock.Anything)
	})
	t.Run("nil context", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		c := New("http://h/", WithTransport(mockTransport))
		//lint:ignore SA1012 testing nil context handling
		x, err := c.Get(nil, "", nil)
		assert.Nil(t, x)
		assert.ErrorIs(t, err, ErrNilContext)
		assert.EqualError(t, err, `restx: do "GET": nil context`)
		mockTransport.AssertNotCalled(t, "Send", mock.Anything)
	})
	t.Run("BeforeFunc error is returned unmodified", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		hookErr := errors.New("hook")
		c := New("http://h/", WithTransport(mockTransport),
			WithBeforeRequest(func(Method, *request.Options) (*request.Options, error) {
				return nil, hookErr
			}))
		x, err := c.Get(context.Background(), "", nil)
		assert.Nil(t, x)
		assert.Same(t, hookErr, err)
		mockTransport.AssertNotCalled(t, "Send", mock.Anything)
	})
	t.Run("preparation error", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		c := New("http://h/", WithTransport(mockTransport))
		x, err := c.Post(context.Background(), "", &request.Options{Body: make(chan int)})
		assert.Nil(t, x)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "restx/request: can't encode body of type chan int")
		mockTransport.AssertNotCalled(t, "Send", mock.Anything)
	})
	t.Run("transport error is returned unmodified", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		sendErr := errors.New("connection refused")
		var after int
		c := New("http://h/", WithTransport(mockTransport),
			WithAfterRequest(func(*request.Response) (interface{}, error) {
				after++
				return nil, nil
			}))
		mockTransport.On("Send", mock.Anything).Return(&request.Response{}, sendErr).Once()
		x, err := c.Get(context.Background(), "", nil)
		assert.Nil(t, x)
		assert.Same(t, sendErr, err)
		assert.Equal(t, 0, after)
		mockTransport.AssertExpectations(t)
	})
	t.Run("AfterFunc replaces the result", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		c := New("http://h/", WithTransport(mockTransport),
			WithAfterRequest(func(*request.Response) (interface{}, error) {
				return nil, nil
			}))
		mockTransport.On("Send", mock.Anything).Return(&request.Response{StatusCode: 200}, nil).Times(len(Methods()))
		for _, m := range Methods() {
			x, err := c.Do(context.Background(), m, "", nil)
			assert.NoError(t, err)
			assert.Nil(t, x)
		}
		mockTransport.AssertExpectations(t)
	})
	t.Run("AfterFunc error is returned unmodified", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		hookErr := errors.New("after")
		c := New("http://h/", WithTransport(mockTransport),
			WithAfterRequest(func(*request.Response) (interface{}, error) {
				return "ignored", hookErr
			}))
		mockTransport.On("Send", mock.Anything).Return(&request.Response{}, nil).Once()
		x, err := c.Get(context.Background(), "", nil)
		assert.Equal(t, "ignored", x)
		assert.Same(t, hookErr, err)
	})
	t.Run("plan carries the call context", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		c := New("http://h/", WithTransport(mockTransport))
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "v")
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Context() == ctx
		})).Return(&request.Response{}, nil).Once()
		_, err := c.Get(ctx, "", nil)
		assert.NoError(t, err)
		mockTransport.AssertExpectations(t)
	})
}

func TestClient_Call(t *testing.T) {
	mockTransport := newMockTransport(t)
	c := New("http://h/", WithTransport(mockTransport))
	t.Run("supported", func(t *testing.T) {
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "PATCH" && p.URL.String() == "http://h/x"
		})).Return(&request.Response{}, nil).Twice()
		_, err := c.Call(context.Background(), "patch", "x", nil)
		assert.NoError(t, err)
		_, err = c.Resource("x").Call(context.Background(), "PATCH", nil)
		assert.NoError(t, err)
	})
	t.Run("unsupported", func(t *testing.T) {
		for _, name := range []string{"options", "TRACE", "", "connect"} {
			x, err := c.Call(context.Background(), name, "x", nil)
			assert.Nil(t, x)
			var usageErr *UsageError
			require.True(t, errors.As(err, &usageErr))
			assert.Equal(t, "call", usageErr.Op)
			assert.Equal(t, name, usageErr.Method)
			assert.ErrorIs(t, err, ErrUnsupportedMethod)
			_, err = c.Resource("x").Call(context.Background(), name, nil)
			assert.ErrorIs(t, err, ErrUnsupportedMethod)
		}
	})
	mockTransport.AssertExpectations(t)
}

func TestClient_PlanCache(t *testing.T) {
	t.Run("equal options share one preparation", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		var prepared, cached int
		handlers := &HandlerGroup{}
		handlers.PushBack(AfterPrepare, HandlerFunc(func(Event, *request.Execution) { prepared++ }))
		handlers.PushBack(BeforeSend, HandlerFunc(func(_ Event, e *request.Execution) {
			if e.Cached {
				cached++
			}
		}))
		c := New("http://h/", WithTransport(mockTransport), WithPlanCache(), WithHandlers(handlers))
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Extra["a"] == 1 && p.Extra["b"] == 2
		})).Return(&request.Response{}, nil).Twice()
		x := map[string]interface{}{}
		x["a"] = 1
		x["b"] = 2
		y := map[string]interface{}{}
		y["b"] = 2
		y["a"] = 1
		_, err := c.Get(context.Background(), "p", &request.Options{Extra: x})
		require.NoError(t, err)
		_, err = c.Get(context.Background(), "p", &request.Options{Extra: y})
		require.NoError(t, err)
		assert.Equal(t, 1, prepared)
		assert.Equal(t, 1, cached)
		assert.Equal(t, 1, c.cache.len())
		mockTransport.AssertExpectations(t)
	})
	t.Run("different options or methods do not share", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		var prepared int
		handlers := &HandlerGroup{}
		handlers.PushBack(AfterPrepare, HandlerFunc(func(Event, *request.Execution) { prepared++ }))
		c := New("http://h/", WithTransport(mockTransport), WithPlanCache(), WithHandlers(handlers))
		mockTransport.On("Send", mock.Anything).Return(&request.Response{}, nil).Times(3)
		_, _ = c.Get(context.Background(), "p", &request.Options{Extra: map[string]interface{}{"a": 1}})
		_, _ = c.Get(context.Background(), "p", &request.Options{Extra: map[string]interface{}{"a": 2}})
		_, _ = c.Put(context.Background(), "p", &request.Options{Extra: map[string]interface{}{"a": 1}})
		assert.Equal(t, 3, prepared)
		assert.Equal(t, 3, c.cache.len())
		mockTransport.AssertExpectations(t)
	})
	t.Run("key order is ignored in every field", func(t *testing.T) {
		testCases := []struct {
			name string
			a, b func() *request.Options
		}{
			{
				name: "header",
				a: func() *request.Options {
					h := http.Header{}
					h.Set("A", "1")
					h.Set("B", "2")
					return &request.Options{Header: h}
				},
				b: func() *request.Options {
					h := http.Header{}
					h.Set("B", "2")
					h.Set("A", "1")
					return &request.Options{Header: h}
				},
			},
			{
				name: "params",
				a: func() *request.Options {
					q := url.Values{}
					q.Set("x", "1")
					q.Set("y", "2")
					return &request.Options{Params: q}
				},
				b: func() *request.Options {
					q := url.Values{}
					q.Set("y", "2")
					q.Set("x", "1")
					return &request.Options{Params: q}
				},
			},
			{
				name: "map body",
				a: func() *request.Options {
					return &request.Options{Body: map[string]interface{}{"a": 1, "b": []int{2}, "c": "3"}}
				},
				b: func() *request.Options {
					return &request.Options{Body: map[string]interface{}{"c": "3", "b": []int{2}, "a": 1}}
				},
			},
			{
				name: "extra",
				a: func() *request.Options {
					return &request.Options{Extra: map[string]interface{}{"a": 1, "b": "2"}}
				},
				b: func() *request.Options {
					return &request.Options{Extra: map[string]interface{}{"b": "2", "a": 1}}
				},
			},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				var prepared int
				handlers := &HandlerGroup{}
				handlers.PushBack(AfterPrepare, HandlerFunc(func(Event, *request.Execution) { prepared++ }))
				var sent []*request.Plan
				tr := TransportFunc(func(p *request.Plan) (*request.Response, error) {
					sent = append(sent, p)
					return &request.Response{}, nil
				})
				c := New("http://h/", WithTransport(tr), WithPlanCache(), WithHandlers(handlers))
				_, err := c.Post(context.Background(), "p", testCase.a())
				require.NoError(t, err)
				_, err = c.Post(context.Background(), "p", testCase.b())
				require.NoError(t, err)
				assert.Equal(t, 1, prepared)
				require.Len(t, sent, 2)
				assert.Equal(t, sent[0].URL.String(), sent[1].URL.String())
				assert.Equal(t, sent[0].Header, sent[1].Header)
				assert.Equal(t, sent[0].Body, sent[1].Body)
				assert.Equal(t, sent[0].Extra, sent[1].Extra)
			})
		}
	})
	t.Run("values that encode alike do not share a plan", func(t *testing.T) {
		type opaque struct{ n int }
		testCases := []struct {
			name string
			a, b *request.Options
		}{
			{"base64 string and bytes", &request.Options{Body: "aGk="}, &request.Options{Body: []byte("hi")}},
			{"opaque extra", &request.Options{Extra: map[string]interface{}{"k": opaque{1}}}, &request.Options{Extra: map[string]interface{}{"k": opaque{2}}}},
			{"int and float extra", &request.Options{Extra: map[string]interface{}{"k": 1}}, &request.Options{Extra: map[string]interface{}{"k": 1.0}}},
			{"string and JSON body", &request.Options{Body: `{"a":1}`}, &request.Options{Body: map[string]int{"a": 1}}},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				send := func(opts ...Option) []*request.Plan {
					var sent []*request.Plan
					tr := TransportFunc(func(p *request.Plan) (*request.Response, error) {
						sent = append(sent, p)
						return &request.Response{}, nil
					})
					c := New("http://h/", append(opts, WithTransport(tr))...)
					for _, o := range []*request.Options{testCase.a, testCase.b} {
						_, err := c.Post(context.Background(), "p", o)
						require.NoError(t, err)
					}
					return sent
				}
				uncached := send()
				cached := send(WithPlanCache())
				require.Len(t, uncached, 2)
				require.Len(t, cached, 2)
				for i := range uncached {
					assert.Equal(t, uncached[i].Body, cached[i].Body)
					assert.Equal(t, uncached[i].Header, cached[i].Header)
					assert.Equal(t, uncached[i].Extra, cached[i].Extra)
				}
			})
		}
	})
	t.Run("reusing the caller's body buffer", func(t *testing.T) {
		var bodies []string
		tr := TransportFunc(func(p *request.Plan) (*request.Response, error) {
			bodies = append(bodies, string(p.Body))
			return &request.Response{}, nil
		})
		c := New("http://h/", WithTransport(tr), WithPlanCache())
		buf := []byte("one")
		_, err := c.Post(context.Background(), "p", &request.Options{Body: buf})
		require.NoError(t, err)
		copy(buf, "two")
		_, err = c.Post(context.Background(), "p", &request.Options{Body: []byte("one")})
		require.NoError(t, err)
		_, err = c.Post(context.Background(), "p", &request.Options{Body: buf})
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "one", "two"}, bodies)
	})
	t.Run("reader body bypasses the cache", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		var prepared int
		handlers := &HandlerGroup{}
		handlers.PushBack(AfterPrepare, HandlerFunc(func(Event, *request.Execution) { prepared++ }))
		c := New("http://h/", WithTransport(mockTransport), WithPlanCache(), WithHandlers(handlers))
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return string(p.Body) == "body"
		})).Return(&request.Response{}, nil).Twice()
		for i := 0; i < 2; i++ {
			_, err := c.Post(context.Background(), "p", &request.Options{Body: strings.NewReader("body")})
			require.NoError(t, err)
		}
		assert.Equal(t, 2, prepared)
		assert.Equal(t, 0, c.cache.len())
		mockTransport.AssertExpectations(t)
	})
	t.Run("cached plan is not shared with the transport", func(t *testing.T) {
		var plans []*request.Plan
		tr := TransportFunc(func(p *request.Plan) (*request.Response, error) {
			plans = append(plans, p)
			p.Header.Set("X-Mutated", "1")
			return &request.Response{}, nil
		})
		c := New("http://h/", WithTransport(tr), WithPlanCache())
		for i := 0; i < 2; i++ {
			_, err := c.Get(context.Background(), "p", nil)
			require.NoError(t, err)
		}
		require.Len(t, plans, 2)
		assert.NotSame(t, plans[0], plans[1])
		var cachedPlan *request.Plan
		c.cache.plans.Range(func(_, v interface{}) bool {
			cachedPlan = v.(*request.Plan)
			return false
		})
		require.NotNil(t, cachedPlan)
		assert.Empty(t, cachedPlan.Header.Get("X-Mutated"))
	})
	t.Run("concurrent calls prepare once", func(t *testing.T) {
		var prepared int32
		handlers := &HandlerGroup{}
		handlers.PushBack(AfterPrepare, HandlerFunc(func(Event, *request.Execution) {
			atomic.AddInt32(&prepared, 1)
		}))
		var sent int32
		tr := TransportFunc(func(*request.Plan) (*request.Response, error) {
			atomic.AddInt32(&sent, 1)
			return &request.Response{}, nil
		})
		c := New("http://h/", WithTransport(tr), WithPlanCache(), WithHandlers(handlers))
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.Post(context.Background(), "p", &request.Options{Body: map[string]int{"n": 1}})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), atomic.LoadInt32(&prepared))
		assert.Equal(t, int32(50), atomic.LoadInt32(&sent))
	})
	t.Run("shared with joined clients", func(t *testing.T) {
		var prepared int
		handlers := &HandlerGroup{}
		handlers.PushBack(AfterPrepare, HandlerFunc(func(Event, *request.Execution) { prepared++ }))
		tr := TransportFunc(func(*request.Plan) (*request.Response, error) {
			return &request.Response{}, nil
		})
		c := New("http://h/", WithTransport(tr), WithPlanCache(), WithHandlers(handlers))
		_, err := c.Get(context.Background(), "a/b", nil)
		require.NoError(t, err)
		_, err = c.Join("a").Get(context.Background(), "b", nil)
		require.NoError(t, err)
		_, err = c.Resource("a").Resource("b").Get(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, prepared)
	})
}

func TestClient_Handlers(t *testing.T) {
	t.Run("event order and execution state", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		handlers := &HandlerGroup{}
		var trace []string
		handlers.PushBack(AfterPrepare, HandlerFunc(func(evt Event, e *request.Execution) {
			trace = append(trace, evt.Name())
			assert.NotNil(t, e.Plan)
			assert.NotNil(t, e.Options)
			assert.False(t, e.Cached)
			assert.True(t, e.Started())
			assert.Nil(t, e.Response)
		}))
		handlers.PushBack(BeforeSend, HandlerFunc(func(evt Event, e *request.Execution) {
			trace = append(trace, evt.Name())
			assert.False(t, e.Ended())
		}))
		handlers.PushBack(AfterSend, HandlerFunc(func(evt Event, e *request.Execution) {
			trace = append(trace, evt.Name())
			assert.True(t, e.Ended())
			assert.Equal(t, 201, e.StatusCode())
			assert.Equal(t, "POST", e.Method)
			assert.Equal(t, "http://h/x", e.URL)
			assert.NoError(t, e.Err)
		}))
		c := New("http://h", WithTransport(mockTransport), WithHandlers(handlers))
		mockTransport.On("Send", mock.Anything).Return(&request.Response{StatusCode: 201}, nil).Once()
		_, err := c.Post(context.Background(), "x", nil)
		assert.NoError(t, err)
		assert.Equal(t, []string{"AfterPrepare", "BeforeSend", "AfterSend"}, trace)
		mockTransport.AssertExpectations(t)
	})
	t.Run("AfterSend sees transport error", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		sendErr := errors.New("boom")
		handlers := &HandlerGroup{}
		var seen error
		handlers.PushBack(AfterSend, HandlerFunc(func(_ Event, e *request.Execution) {
			seen = e.Err
			assert.Nil(t, e.Response)
		}))
		c := New("http://h", WithTransport(mockTransport), WithHandlers(handlers))
		mockTransport.On("Send", mock.Anything).Return(&request.Response{}, sendErr).Once()
		_, err := c.Get(context.Background(), "", nil)
		assert.Same(t, sendErr, err)
		assert.Same(t, sendErr, seen)
	})
	t.Run("BeforeSend may replace the plan", func(t *testing.T) {
		mockTransport := newMockTransport(t)
		handlers := &HandlerGroup{}
		handlers.PushBack(BeforeSend, HandlerFunc(func(_ Event, e *request.Execution) {
			p := e.Plan.Clone(e.Plan.Context())
			p.Header.Set("X-Signature", "signed")
			e.Plan = p
		}))
		c := New("http://h", WithTransport(mockTransport), WithHandlers(handlers), WithPlanCache())
		mockTransport.On("Send", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Header.Get("X-Signature") == "signed"
		})).Return(&request.Response{}, nil).Once()
		_, err := c.Get(context.Background(), "", nil)
		assert.NoError(t, err)
		mockTransport.AssertExpectations(t)
	})
	t.Run("multiple groups run in order", func(t *testing.T) {
		var trace []string
		g1, g2 := &HandlerGroup{}, &HandlerGroup{}
		g1.PushBack(BeforeSend, HandlerFunc(func(Event, *request.Execution) { trace = append(trace, "g1") }))
		g2.PushBack(BeforeSend, HandlerFunc(func(Event, *request.Execution) { trace = append(trace, "g2") }))
		tr := TransportFunc(func(*request.Plan) (*request.Response, error) { return &request.Response{}, nil })
		c := New("http://h", WithTransport(tr), WithHandlers(g1), WithHandlers(g2))
		_, err := c.Get(context.Background(), "", nil)
		assert.NoError(t, err)
		assert.Equal(t, []string{"g1", "g2"}, trace)
	})
}

func TestClient_CloseIdleConnections(t *testing.T) {
	t.Run("transport without CloseIdleConnections", func(t *testing.T) {
		c := New("http://h", WithTransport(newMockTransport(t)))
		assert.NotPanics(t, c.CloseIdleConnections)
	})
	t.Run("transport with CloseIdleConnections", func(t *testing.T) {
		mockTransport := newMockTransportWithCloseIdleConnections(t)
		c := New("http://h", WithTransport(mockTransport))
		mockTransport.On("CloseIdleConnections").Return().Once()
		c.CloseIdleConnections()
		mockTransport.AssertExpectations(t)
	})
}

func basicAuth(c *request.Credentials) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Password))
}

type mockTransport struct {
	mock.Mock
}

func newMockTransport(t *testing.T) *mockTransport {
	m := &mockTransport{}
	m.Test(t)
	return m
}

func (m *mockTransport) Send(p *request.Plan) (*request.Response, error) {
	args := m.Called(p)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*request.Response); ok {
		return resp, err
	}
	return nil, err
}

type mockTransportWithCloseIdleConnections struct {
	mockTransport
}

func newMockTransportWithCloseIdleConnections(t *testing.T) *mockTransportWithCloseIdleConnections {
	m := &mockTransportWithCloseIdleConnections{}
	m.Test(t)
	return m
}

func (m *mockTransportWithCloseIdleConnections) CloseIdleConnections() {
	m.Called()
}
