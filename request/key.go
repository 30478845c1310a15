// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

type keyFields struct {
	Method  string                 `json:"m"`
	URL     string                 `json:"u"`
	Header  http.Header            `json:"h,omitempty"`
	Auth    *Credentials           `json:"a,omitempty"`
	Timeout time.Duration          `json:"t,omitempty"`
	Params  url.Values             `json:"p,omitempty"`
	Body    []byte                 `json:"b,omitempty"`
	JSON    bool                   `json:"j,omitempty"`
	Extra   map[string]interface{} `json:"x,omitempty"`
}

// Key returns a canonical key identifying the Plan that NewPlan would
// prepare from method, url and o. Two Options values holding equal
// entries produce the same key no matter the order in which their maps
// were populated, and two Options values producing different plans
// never share a key.
//
// The body is keyed by the exact bytes the plan will carry, so a string
// and a []byte with the same contents share a key, while a []byte and
// the string of its base64 encoding do not. Extra values are keyed
// together with their Go type.
//
// The second return value is false if no stable key exists: the body
// is a reader (which preparing the plan consumes), the body cannot be
// encoded, some string is not valid UTF-8, or an Extra value is
// anything other than nil, a bool, a string, a number, or a
// []interface{}, []string, map[string]interface{} or map[string]string
// built from those.
func Key(method, url string, o *Options) (string, bool) {
	if o == nil {
		o = &Options{}
	}
	if isStreamBody(o.Body) || !validKeyStrings(method, url, o) {
		return "", false
	}
	body, err := BodyBytes(o.Body)
	if err != nil {
		return "", false
	}
	var extra map[string]interface{}
	if o.Extra != nil {
		extra = make(map[string]interface{}, len(o.Extra))
		for k, v := range o.Extra {
			tv, ok := typed(v)
			if !ok || !utf8.ValidString(k) {
				return "", false
			}
			extra[k] = tv
		}
	}
	b, err := sonic.ConfigStd.Marshal(keyFields{
		Method:  method,
		URL:     url,
		Header:  o.Header,
		Auth:    o.Auth,
		Timeout: o.Timeout,
		Params:  o.Params,
		Body:    body,
		JSON:    isJSONBody(o.Body),
		Extra:   extra,
	})
	if err != nil {
		return "", false
	}
	return string(b), true
}

// typed pairs v with the name of its type, recursively, so that values
// of different types which encode alike are kept apart.
func typed(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case string:
		return []interface{}{"string", x}, utf8.ValidString(x)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, time.Duration:
		return []interface{}{fmt.Sprintf("%T", x), x}, true
	case []string:
		return []interface{}{"[]string", x}, validStrings(x)
	case map[string]string:
		for k, e := range x {
			if !utf8.ValidString(k) || !utf8.ValidString(e) {
				return nil, false
			}
		}
		return []interface{}{"map[string]string", x}, true
	case []interface{}:
		s := make([]interface{}, len(x))
		for i, e := range x {
			te, ok := typed(e)
			if !ok {
				return nil, false
			}
			s[i] = te
		}
		return []interface{}{"[]interface {}", s}, true
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			te, ok := typed(e)
			if !ok || !utf8.ValidString(k) {
				return nil, false
			}
			m[k] = te
		}
		return []interface{}{"map[string]interface {}", m}, true
	default:
		return nil, false
	}
}

// validKeyStrings reports whether every string that goes into a key
// is valid UTF-8. JSON encoding replaces invalid bytes, which would let
// different strings share a key.
func validKeyStrings(method, url string, o *Options) bool {
	if !utf8.ValidString(method) || !utf8.ValidString(url) {
		return false
	}
	for k, vs := range o.Header {
		if !utf8.ValidString(k) || !validStrings(vs) {
			return false
		}
	}
	for k, vs := range o.Params {
		if !utf8.ValidString(k) || !validStrings(vs) {
			return false
		}
	}
	if o.Auth != nil && (!utf8.ValidString(o.Auth.Username) || !utf8.ValidString(o.Auth.Password)) {
		return false
	}
	return true
}

func validStrings(s []string) bool {
	for _, e := range s {
		if !utf8.ValidString(e) {
			return false
		}
	}
	return true
}
