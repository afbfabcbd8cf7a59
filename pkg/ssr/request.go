package ssr

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Request is the immutable description of one inbound request.
type Request struct {
	// ID correlates log lines and spans.
	ID string

	Method string

	// Path is the decoded URL path, used for the static check.
	Path string

	// RawPath is the escaped URL path, used for routing. Empty means Path
	// needs no escaping.
	RawPath string

	RawQuery string
	Query    url.Values
	Headers  http.Header
}

// NewRequest builds a Request from an inbound HTTP request. The ID is the
// chi request ID when the RequestID middleware ran, otherwise a new UUID.
func NewRequest(r *http.Request) Request {
	id := middleware.GetReqID(r.Context())
	if id == "" {
		id = uuid.NewString()
	}
	return Request{
		ID:       id,
		Method:   r.Method,
		Path:     r.URL.Path,
		RawPath:  r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Query:    r.URL.Query(),
		Headers:  r.Header.Clone(),
	}
}

// routePath is the path handed to the route table.
func (r Request) routePath() string {
	if r.RawPath != "" {
		return r.RawPath
	}
	return (&url.URL{Path: r.Path}).EscapedPath()
}

type requestKey struct{}

// WithRequest returns ctx carrying req.
func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFromContext returns the Request being orchestrated, if any. Loaders
// and guards use it to reach the inbound headers.
func RequestFromContext(ctx context.Context) (Request, bool) {
	req, ok := ctx.Value(requestKey{}).(Request)
	return req, ok
}
