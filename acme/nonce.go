package acme

import (
	"context"

	"github.com/icing/mod_md_acme/transport"
)

// refreshNonce implements the passive half of the nonce cache: on any HTTP
// response, successful or not, a Replay-Nonce header unconditionally
// replaces the cached value. This never reads the cache — GET and HEAD are
// free to call it too.
func (s *Session) refreshNonce(resp *transport.Response) {
	if resp == nil {
		return
	}
	for k, v := range resp.Header {
		if equalFoldHeader(k, replayNonceHeader) && len(v) > 0 {
			s.nonce = v[0]
			return
		}
	}
}

func equalFoldHeader(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ensureNonce is the active half: if the cache is empty, it invokes the
// dialect's new-nonce endpoint and blocks until a fresh nonce is cached.
// Callers must have already resolved the dialect.
func (s *Session) ensureNonce() error {
	if s.nonce != "" {
		return nil
	}

	endpoint, ok := s.newNonceEndpoint()
	if !ok {
		return newError(KindInvalid, "no new-nonce endpoint bound for dialect %s", s.dialect)
	}

	resp, err := doSync(func(complete transport.CompletionFunc) {
		s.transport.Head(context.Background(), endpoint, nil, complete)
	})
	if err != nil {
		return wrapTransportErr(err)
	}
	s.refreshNonce(resp)
	s.metrics.nonceRefreshes.Inc()

	if resp.Status < 200 || resp.Status >= 300 {
		return errorForResponse(resp.Status, resp.ContentType, resp.Body)
	}
	if s.nonce == "" {
		return newError(KindInvalid, "new-nonce response at %s carried no Replay-Nonce header", endpoint)
	}
	return nil
}

// consumeNonce pops the cached nonce for use in a single signed POST. It is
// cleared *before* the HTTP transport is engaged, so a duplicated retry is
// forced to re-acquire.
func (s *Session) consumeNonce() (string, bool) {
	n := s.nonce
	s.nonce = ""
	return n, n != ""
}
