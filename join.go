// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package restx

import (
	"strings"
)

// join appends rel to base. Leading slashes are always stripped from
// rel first, so rel is never treated as root-relative; exactly one
// slash separates the two parts. An empty rel yields base, and a rel
// carrying its own scheme replaces base entirely.
//
// A query or fragment on base is moved to the end of the result unless
// rel has its own.
func join(base, rel string) string {
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return base
	}
	if hasScheme(rel) {
		return rel
	}

	path, suffix := splitSuffix(base)
	if strings.ContainsAny(rel, "?#") {
		suffix = ""
	}
	if strings.HasSuffix(path, "/") {
		return path + rel + suffix
	}
	return path + "/" + rel + suffix
}

// resourcePath normalizes a resource name: leading slashes are
// stripped and, depending on trailingSlash, the name is made to end in
// exactly one slash or in none.
func resourcePath(name string, trailingSlash bool) string {
	name = strings.TrimLeft(name, "/")
	name = strings.TrimRight(name, "/")
	if trailingSlash && name != "" {
		name += "/"
	}
	return name
}

// normalizeBase makes base end in exactly one slash if trailingSlash is
// set, and otherwise leaves it as it is.
func normalizeBase(base string, trailingSlash bool) string {
	if !trailingSlash {
		return base
	}
	path, suffix := splitSuffix(base)
	return strings.TrimRight(path, "/") + "/" + suffix
}

// splitSuffix splits s before its first '?' or '#'.
func splitSuffix(s string) (string, string) {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// hasScheme reports whether s begins with an RFC 3986 scheme followed
// by "://".
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0 && strings.HasPrefix(s[i:], "://")
		default:
			return false
		}
	}
	return false
}
