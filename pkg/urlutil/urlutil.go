// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package urlutil implements the small set of URL manipulations the
// manifest resolver needs: joining a possibly-relative dependency URL
// against a reference URL, deriving a sibling repository name, and
// stripping embedded credentials before using a URL as a cache key.
//
// These all need to work for schemes net/url doesn't treat specially,
// such as ssh:// and git+ssh://, so Join substitutes a neutral scheme
// before delegating to net/url and restores the original afterwards.
package urlutil

import (
	"net/url"
	"path"
	"strings"
)

// HasScheme reports whether u looks like an absolute URL (has a scheme
// component), as opposed to a plain relative path like "../dep1".
func HasScheme(u string) bool {
	idx := strings.Index(u, "://")
	if idx <= 0 {
		return false
	}
	scheme := u[:idx]
	for _, r := range scheme {
		if !(r == '+' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// Join resolves url against base the way a dependency's relative URL is
// resolved against the manifest's own origin URL.
//
//   - Join("", u) == u
//   - Join(base, u) == u when u is already absolute (has a scheme)
//   - otherwise base is normalized to end in "/", its scheme is swapped
//     for "http" so net/url's ResolveReference can do the path join, and
//     the original scheme is restored on the result.
func Join(base, u string) string {
	if HasScheme(u) {
		return u
	}
	if base == "" {
		return u
	}

	scheme, rest, hasScheme := splitScheme(base)
	if hasScheme {
		rest = "//" + rest
	}
	normBase := rest
	if !strings.HasSuffix(normBase, "/") {
		normBase += "/"
	}

	neutralBase := "http://" + strings.TrimPrefix(normBase, "//")
	// A base without a scheme is a bare path with no authority marker;
	// join it as a plain path.
	if !strings.HasPrefix(normBase, "//") {
		joined := path.Join(path.Dir(normBase), u)
		if hasScheme {
			return scheme + "://" + strings.TrimPrefix(joined, "/")
		}
		return joined
	}

	baseURL, err := url.Parse(neutralBase)
	if err != nil {
		return u
	}
	refURL, err := url.Parse(u)
	if err != nil {
		return u
	}
	resolved := baseURL.ResolveReference(refURL)

	result := resolved.String()
	if hasScheme {
		result = scheme + "://" + strings.TrimPrefix(result, "http://")
	} else {
		result = strings.TrimPrefix(result, "http://")
	}
	return result
}

// splitScheme returns the scheme (without "://") and the remainder of u.
// hasScheme is false when u has no scheme at all (a bare path).
func splitScheme(u string) (scheme, rest string, hasScheme bool) {
	if !HasScheme(u) {
		return "", u, false
	}
	idx := strings.Index(u, "://")
	return u[:idx], u[idx+3:], true
}

// Sub derives a sub-repository name from name, carrying over the dotted
// suffix of base's last path segment (e.g. a manifest hosted at a ".git"
// URL implies sibling dependencies are also named "<name>.git").
func Sub(base, name string) string {
	last := lastSegment(base)
	dot := strings.LastIndex(last, ".")
	if dot <= 0 {
		return name
	}
	return name + last[dot:]
}

func lastSegment(u string) string {
	u = strings.TrimSuffix(u, "/")
	if idx := strings.LastIndexAny(u, "/:"); idx >= 0 {
		return u[idx+1:]
	}
	return u
}

// StripUserPassword removes a "user:pass@" (or "user@") authority prefix
// from u, used when deriving clone-cache keys so credentials never end up
// as part of an on-disk cache directory name.
func StripUserPassword(u string) string {
	idx := strings.Index(u, "://")
	if idx < 0 {
		return stripAuthority(u)
	}
	scheme := u[:idx+3]
	rest := u[idx+3:]
	return scheme + stripAuthority(rest)
}

func stripAuthority(rest string) string {
	slash := strings.IndexAny(rest, "/?#")
	authority := rest
	tail := ""
	if slash >= 0 {
		authority = rest[:slash]
		tail = rest[slash:]
	}
	if at := strings.LastIndex(authority, "@"); at >= 0 {
		authority = authority[at+1:]
	}
	return authority + tail
}
