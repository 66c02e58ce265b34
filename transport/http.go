package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// httpTransport is the default Transport, a thin wrapper around net/http
// that attaches the session's User-Agent, optionally proxies, caps response
// bodies, and dumps requests/responses for trace-level debugging.
type httpTransport struct {
	client           *http.Client
	userAgent        string
	maxResponseBytes int64
	log              logr.Logger
}

// New builds the default Transport from cfg. A nil logr.Logger defaults to
// a discard logger.
func New(cfg Config, log logr.Logger) (Transport, error) {
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = 1024 * 1024
	}

	rt := http.DefaultTransport
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, errors.Wrapf(err, "parse proxy URL %q", cfg.ProxyURL)
		}
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.Proxy = http.ProxyURL(proxyURL)
		rt = base
	}

	return &httpTransport{
		client:           &http.Client{Transport: instrument(rt)},
		userAgent:        cfg.UserAgent,
		maxResponseBytes: maxBytes,
		log:              log,
	}, nil
}

func (t *httpTransport) Get(ctx context.Context, rawURL string, headers map[string]string, complete CompletionFunc) {
	t.do(ctx, http.MethodGet, rawURL, headers, "", nil, complete)
}

func (t *httpTransport) Head(ctx context.Context, rawURL string, headers map[string]string, complete CompletionFunc) {
	t.do(ctx, http.MethodHead, rawURL, headers, "", nil, complete)
}

func (t *httpTransport) Post(ctx context.Context, rawURL string, headers map[string]string, contentType string, body []byte, complete CompletionFunc) {
	t.do(ctx, http.MethodPost, rawURL, headers, contentType, body, complete)
}

func (t *httpTransport) do(ctx context.Context, method, rawURL string, headers map[string]string, contentType string, body []byte, complete CompletionFunc) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		complete(nil, errors.Wrapf(err, "build %s request to %s", method, rawURL))
		return
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	if dump, err := httputil.DumpRequestOut(req, body != nil); err == nil {
		t.log.V(2).Info("acme request", "dump", string(dump))
	}

	resp, err := t.client.Do(req)
	if err != nil {
		complete(nil, errors.Wrapf(err, "%s %s", method, rawURL))
		return
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, t.maxResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		complete(nil, errors.Wrapf(err, "read response body from %s", rawURL))
		return
	}
	if int64(len(data)) > t.maxResponseBytes {
		complete(nil, errors.Errorf("response from %s exceeded %d byte limit", rawURL, t.maxResponseBytes))
		return
	}

	if dump, err := httputil.DumpResponse(resp, len(data) > 0); err == nil {
		t.log.V(2).Info("acme response", "dump", string(dump))
	}

	complete(&Response{
		Status:      resp.StatusCode,
		Header:      map[string][]string(resp.Header),
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil)
}

// instrument wraps rt with Prometheus request-count and duration metrics.
func instrument(rt http.RoundTripper) http.RoundTripper {
	return &instrumentedRoundTripper{wrapped: rt}
}

type instrumentedRoundTripper struct {
	wrapped http.RoundTripper
}

func (t *instrumentedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	timer := prometheus.NewTimer(requestDuration.WithLabelValues(req.Method, pathLabel(req.URL.Path)))
	resp, err := t.wrapped.RoundTrip(req)
	timer.ObserveDuration()

	status := "error"
	if resp != nil {
		status = resp.Status
	}
	requestTotal.WithLabelValues(req.Method, pathLabel(req.URL.Path), status).Inc()
	return resp, err
}

// pathLabel keeps cardinality bounded by collapsing a path to its first
// two segments.
func pathLabel(path string) string {
	segs := splitPath(path)
	if len(segs) > 2 {
		segs = segs[:2]
	}
	out := ""
	for _, s := range segs {
		out += "/" + s
	}
	if out == "" {
		return "/"
	}
	return out
}

func splitPath(path string) []string {
	var segs []string
	cur := ""
	for _, r := range path {
		if r == '/' {
			if cur != "" {
				segs = append(segs, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		segs = append(segs, cur)
	}
	return segs
}

var (
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mod_md_acme",
		Subsystem: "transport",
		Name:      "request_duration_seconds",
		Help:      "Duration of ACME HTTP requests in seconds.",
	}, []string{"method", "path"})

	requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mod_md_acme",
		Subsystem: "transport",
		Name:      "requests_total",
		Help:      "Count of ACME HTTP requests by method, path, and status.",
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(requestDuration, requestTotal)
}
