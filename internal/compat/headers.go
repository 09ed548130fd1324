package compat

import "strings"

// HeaderSet is an immutable set of lower-cased header names.
type HeaderSet struct {
	names map[string]struct{}
}

func newHeaderSet(names ...string) HeaderSet {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[strings.ToLower(n)] = struct{}{}
	}
	return HeaderSet{names: m}
}

// Contains reports whether name is in the set, ignoring case.
func (h HeaderSet) Contains(name string) bool {
	_, ok := h.names[strings.ToLower(name)]
	return ok
}

// With returns a new set holding the members of h plus extra.
func (h HeaderSet) With(extra ...string) HeaderSet {
	all := make([]string, 0, len(h.names)+len(extra))
	for n := range h.names {
		all = append(all, n)
	}
	return newHeaderSet(append(all, extra...)...)
}

var standardRequestHeaders = newHeaderSet(
	"Accept",
	"Accept-Charset",
	"Accept-Datetime",
	"Accept-Encoding",
	"Accept-Language",
	"Access-Control-Request-Headers",
	"Access-Control-Request-Method",
	"Authorization",
	"Cache-Control",
	"Connection",
	"Content-Length",
	"Content-MD5",
	"Content-Type",
	"Cookie",
	"Date",
	"Expect",
	"Forwarded",
	"From",
	"Host",
	"If-Match",
	"If-Modified-Since",
	"If-None-Match",
	"If-Range",
	"If-Unmodified-Since",
	"Max-Forwards",
	"Origin",
	"Pragma",
	"Proxy-Authorization",
	"Range",
	"Referer",
	"TE",
	"Upgrade",
	"User-Agent",
	"Via",
	"Warning",
)

var standardResponseHeaders = newHeaderSet(
	"Accept-Patch",
	"Accept-Ranges",
	"Access-Control-Allow-Origin",
	"Age",
	"Allow",
	"Alt-Svc",
	"Cache-Control",
	"Connection",
	"Content-Disposition",
	"Content-Encoding",
	"Content-Language",
	"Content-Length",
	"Content-Location",
	"Content-MD5",
	"Content-Range",
	"Content-Type",
	"Date",
	"ETag",
	"Expires",
	"Last-Modified",
	"Link",
	"Location",
	"P3P",
	"Pragma",
	"Proxy-Authenticate",
	"Public-Key-Pins",
	"Refresh",
	"Retry-After",
	"Server",
	"Set-Cookie",
	"Status",
	"Strict-Transport-Security",
	"TSV",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
	"Vary",
	"Via",
	"WWW-Authenticate",
	"Warning",
	"X-Frame-Options",
)

// StandardRequestHeaders returns the built-in set of standard request headers.
func StandardRequestHeaders() HeaderSet {
	return standardRequestHeaders
}

// StandardResponseHeaders returns the built-in set of standard response headers.
func StandardResponseHeaders() HeaderSet {
	return standardResponseHeaders
}
