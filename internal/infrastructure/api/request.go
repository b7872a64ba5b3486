package api

import (
	"net/http"
	"net/url"
)

// Request describes one call against the content API. Path is relative to
// the base URL the transport was constructed with.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      any
	Headers   map[string]string
}

// IsRead reports whether the request may be retried
func (r Request) IsRead() bool {
	return r.Method == http.MethodGet
}

// MergeHeaders returns base overlaid with extra; extra wins on conflicts
func MergeHeaders(base map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range extra {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}

// joinURL appends an already escaped path to the base URL's path
func joinURL(base *url.URL, p string, q url.Values) string {
	u := *base
	rawPath := joinPath(base.EscapedPath(), p)
	if unescaped, err := url.PathUnescape(rawPath); err == nil {
		u.Path = unescaped
		u.RawPath = rawPath
	} else {
		u.Path = rawPath
		u.RawPath = ""
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	} else {
		u.RawQuery = ""
	}
	return u.String()
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a[len(a)-1] == '/' {
		a = a[:len(a)-1]
	}
	if b[0] != '/' {
		b = "/" + b
	}
	return a + b
}
