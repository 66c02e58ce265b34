// Package transport defines the HTTP transport interface the acme package
// consumes, plus a default net/http-backed implementation instrumented
// with Prometheus metrics.
package transport

import "context"

// Response is what a Transport hands back on request completion: status,
// headers, and a body capped by the configured size limit.
type Response struct {
	Status      int
	Header      map[string][]string
	Body        []byte
	ContentType string
}

// CompletionFunc is invoked once a request completes, successfully or not.
// err is non-nil only for transport-level failures (DNS, connection,
// cancellation, response-too-large) — a non-2xx HTTP status is reported via
// Response.Status, not err.
type CompletionFunc func(resp *Response, err error)

// Transport is the external HTTP dependency the Session holds for its full
// lifetime. Implementations must cap the response body they read at
// MaxResponseBytes.
type Transport interface {
	// Get issues an HTTP GET.
	Get(ctx context.Context, url string, headers map[string]string, complete CompletionFunc)
	// Head issues an HTTP HEAD.
	Head(ctx context.Context, url string, headers map[string]string, complete CompletionFunc)
	// Post issues an HTTP POST with the given content type and body.
	Post(ctx context.Context, url string, headers map[string]string, contentType string, body []byte, complete CompletionFunc)
}

// Config configures the default Transport implementation.
type Config struct {
	UserAgent        string
	ProxyURL         string
	MaxResponseBytes int64
}
