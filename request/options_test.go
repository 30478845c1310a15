// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Clone(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var o *Options
		c := o.Clone()
		require.NotNil(t, c)
		assert.Equal(t, &Options{}, c)
	})
	t.Run("deep copy", func(t *testing.T) {
		o := &Options{
			Header:  http.Header{"Foo": {"bar"}},
			Auth:    &Credentials{Username: "user", Password: "pass"},
			Timeout: time.Second,
			Params:  url.Values{"q": {"a"}},
			Body:    "body",
			Extra:   map[string]interface{}{"verify": false},
		}
		c := o.Clone()
		assert.Equal(t, o, c)
		c.Header.Set("Foo", "baz")
		c.Auth.Password = "other"
		c.Params.Add("q", "b")
		c.Extra["verify"] = true
		assert.Equal(t, "bar", o.Header.Get("Foo"))
		assert.Equal(t, "pass", o.Auth.Password)
		assert.Equal(t, []string{"a"}, o.Params["q"])
		assert.Equal(t, false, o.Extra["verify"])
	})
}

func TestOptions_Merge(t *testing.T) {
	a := &Credentials{Username: "user", Password: "password"}
	b := &Credentials{Username: "defaults", Password: "overridden"}
	testCases := []struct {
		name     string
		base     *Options
		other    *Options
		expected *Options
	}{
		{
			name:     "nil other",
			base:     &Options{Auth: a},
			other:    nil,
			expected: &Options{Auth: a},
		},
		{
			name:     "empty other keeps defaults",
			base:     &Options{Auth: a},
			other:    &Options{},
			expected: &Options{Auth: a},
		},
		{
			name:     "other wins",
			base:     &Options{Auth: a},
			other:    &Options{Auth: b},
			expected: &Options{Auth: b},
		},
		{
			name:     "header replaced wholesale",
			base:     &Options{Header: http.Header{"A": {"1"}, "B": {"2"}}},
			other:    &Options{Header: http.Header{"B": {"3"}}},
			expected: &Options{Header: http.Header{"B": {"3"}}},
		},
		{
			name: "all named fields",
			base: &Options{Timeout: time.Second},
			other: &Options{
				Timeout: time.Minute,
				Params:  url.Values{"x": {"y"}},
				Body:    []byte("z"),
			},
			expected: &Options{
				Timeout: time.Minute,
				Params:  url.Values{"x": {"y"}},
				Body:    []byte("z"),
			},
		},
		{
			name:     "extra merged by key",
			base:     &Options{Extra: map[string]interface{}{"a": 1, "b": 2}},
			other:    &Options{Extra: map[string]interface{}{"b": 3, "c": 4}},
			expected: &Options{Extra: map[string]interface{}{"a": 1, "b": 3, "c": 4}},
		},
		{
			name:     "extra into empty base",
			base:     &Options{},
			other:    &Options{Extra: map[string]interface{}{"test": "test"}},
			expected: &Options{Extra: map[string]interface{}{"test": "test"}},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.base.Merge(testCase.other)
			assert.Equal(t, testCase.expected, testCase.base)
		})
	}
}

func TestOptions_SetExtra(t *testing.T) {
	o := &Options{}
	o.SetExtra("a", 1).SetExtra("b", "two")
	assert.Equal(t, map[string]interface{}{"a": 1, "b": "two"}, o.Extra)
}
