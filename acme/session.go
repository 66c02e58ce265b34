package acme

import (
	"crypto"
	"fmt"
	"net/url"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/icing/mod_md_acme/acme/resources"
	"github.com/icing/mod_md_acme/transport"
)

// Session is the root client object: it holds the base directory URL, the
// resolved dialect and its endpoints, the nonce cache, the bound account
// triple, the HTTP transport, and the retry ceiling. A Session is
// single-threaded cooperative — callers must serialize signed POSTs
// themselves; the Session does no internal locking.
type Session struct {
	baseURL     string
	dialect     Dialect
	endpoints   endpoints
	caAgreement string

	nonce string // "" means absent; must be refreshed before the next signed POST

	accountID  string
	account    *resources.Account
	accountKey crypto.Signer

	transport  transport.Transport
	signer     Signer
	userAgent  string
	proxyURL   string
	shortName  string
	maxRetries int

	log logr.Logger

	metrics sessionMetrics
}

type sessionMetrics struct {
	nonceRefreshes prometheus.Counter
	retries        prometheus.Counter
}

// Config configures Session construction. Product is the caller's
// identifying string, combined with this module's own name into the
// User-Agent header. It is passed explicitly rather than kept as a
// process-wide global, so multiple Sessions in one process can each
// advertise their own caller.
type Config struct {
	Product    string
	ProxyURL   string
	MaxRetries int
	Transport  transport.Transport
	Signer     Signer
	Log        logr.Logger
}

const moduleUserAgent = "mod_md_acme/1.0"

// Create validates baseURL and constructs a Session bound to it, with
// dialect UNKNOWN until the first setup or signed request.
func Create(baseURL string, cfg Config) (*Session, error) {
	u, err := url.Parse(baseURL)
	if err != nil || !u.IsAbs() {
		return nil, newError(KindInvalid, "base_url %q is not an absolute URI", baseURL)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	log := cfg.Log
	if log.IsZero() {
		log = logr.Discard()
	}

	userAgent := moduleUserAgent
	if cfg.Product != "" {
		userAgent = fmt.Sprintf("%s %s", cfg.Product, moduleUserAgent)
	}

	s := &Session{
		baseURL:    baseURL,
		dialect:    DialectUnknown,
		userAgent:  userAgent,
		proxyURL:   cfg.ProxyURL,
		shortName:  shortName(u.Hostname()),
		maxRetries: maxRetries,
		log:        log.WithValues("session", shortName(u.Hostname())),
		signer:     cfg.Signer,
		metrics: sessionMetrics{
			nonceRefreshes: sessionNonceRefreshes,
			retries:        sessionRetries,
		},
	}

	if s.signer == nil {
		s.signer = NewSigner()
	}

	if cfg.Transport != nil {
		s.transport = cfg.Transport
	} else {
		t, err := transport.New(transport.Config{
			UserAgent:        userAgent,
			ProxyURL:         cfg.ProxyURL,
			MaxResponseBytes: maxResponseBytes,
		}, log)
		if err != nil {
			return nil, wrapError(KindInvalid, err, "construct HTTP transport")
		}
		s.transport = t
	}

	return s, nil
}

// shortName truncates host to its last shortNameMaxLen bytes, for use as a
// compact identifier in log output.
func shortName(host string) string {
	if len(host) <= shortNameMaxLen {
		return host
	}
	return host[len(host)-shortNameMaxLen:]
}

// Dialect reports the Session's currently resolved dialect.
func (s *Session) Dialect() Dialect { return s.dialect }

// BaseURL returns the CA directory URL the Session is bound to.
func (s *Session) BaseURL() string { return s.baseURL }

// CAAgreement returns the advertised terms-of-service URL, if any.
func (s *Session) CAAgreement() string { return s.caAgreement }

var (
	sessionNonceRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mod_md_acme",
		Subsystem: "session",
		Name:      "nonce_refreshes_total",
		Help:      "Count of new-nonce fetches performed across all sessions.",
	})
	sessionRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mod_md_acme",
		Subsystem: "session",
		Name:      "badnonce_retries_total",
		Help:      "Count of badNonce/userActionRequired retries performed across all sessions.",
	})
)

func init() {
	prometheus.MustRegister(sessionNonceRefreshes, sessionRetries)
}

// ensureDialect runs directory discovery if the dialect hasn't been bound
// yet, so POST requests always have endpoints and a dialect to work with.
func (s *Session) ensureDialect() *Error {
	if s.dialect != DialectUnknown {
		return nil
	}
	if err := s.setup(); err != nil {
		return err
	}
	return nil
}

// wrapTransportErr classifies a transport-layer failure (never a non-2xx
// status, which errorForResponse handles) as GENERAL, preserving its cause.
func wrapTransportErr(err error) *Error {
	return wrapError(KindGeneral, err, "transport error")
}
