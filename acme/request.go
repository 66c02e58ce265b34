package acme

import (
	"context"

	"github.com/icing/mod_md_acme/transport"
)

// Method is the HTTP method a Request carries. Only GET, HEAD, and POST are
// supported; anything else is rejected with KindNotImplemented.
type Method string

const (
	MethodGet  Method = "GET"
	MethodHead Method = "HEAD"
	MethodPost Method = "POST"
)

// InitFunc populates a Request's JSON payload before it is signed. It
// typically sets r.Payload.
type InitFunc func(r *Request) *Error

// JSONHandler processes a successfully parsed JSON response body and
// returns the Request's terminal outcome.
type JSONHandler func(status int, body *JSONValue) *Error

// RawHandler processes a 2xx response body that OnJSON did not take (an
// empty body, or one whose Content-Type isn't JSON; any body when OnJSON is
// unset) and returns the Request's terminal outcome. A malformed body with a
// JSON Content-Type is KindInvalid and never reaches RawHandler.
type RawHandler func(status int, contentType string, body []byte) *Error

// Completion bundles the response callbacks a Request needs: one optional
// pre-send hook and two outcome handlers. At least one of OnJSON/OnRaw must
// be set; both may be, in which case OnJSON wins when the response parses
// as JSON.
type Completion struct {
	OnInit InitFunc
	OnJSON JSONHandler
	OnRaw  RawHandler
}

func (c Completion) validate() *Error {
	if c.OnJSON == nil && c.OnRaw == nil {
		return newError(KindInvalid, "at least one of OnJSON, OnRaw must be supplied")
	}
	return nil
}

// Request is the per-call scratch state the pipeline drives to a terminal
// outcome. A caller never constructs one directly; the convenience
// operations in ops.go do so and submit it to send.
type Request struct {
	session *Session
	method  Method
	url     string

	// Payload is the JSON body to sign for a POST. OnInit typically sets
	// this; GET/HEAD never use it.
	Payload *JSONValue

	completion  Completion
	retriesLeft int
}

func newRequest(s *Session, method Method, url string, c Completion) (*Request, *Error) {
	if url == "" {
		return nil, newError(KindInvalid, "request url must not be empty")
	}
	if method != MethodHead {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}
	return &Request{
		session:     s,
		method:      method,
		url:         url,
		completion:  c,
		retriesLeft: s.maxRetries,
	}, nil
}

// send drives the Request through the full pipeline, iterating (not
// recursing) on badNonce/userActionRequired retries up to the Session's
// retry ceiling.
func (r *Request) send() *Error {
	if r.method != MethodGet && r.method != MethodHead && r.method != MethodPost {
		return newError(KindNotImplemented, "unsupported method %q", r.method)
	}

	for {
		if r.method == MethodPost {
			if err := r.session.ensureDialect(); err != nil {
				return asError(err)
			}
			if err := r.session.ensureNonce(); err != nil {
				return asError(err)
			}
		}

		protected := map[string]interface{}{}
		var signedBody []byte
		if r.method == MethodPost {
			nonce, ok := r.session.consumeNonce()
			if !ok {
				return newError(KindInvalid, "no nonce available to consume")
			}
			protected["nonce"] = nonce
			if r.session.dialect == DialectV2 {
				protected["url"] = r.url
			}

			if r.completion.OnInit != nil {
				if err := r.completion.OnInit(r); err != nil {
					return err
				}
			}

			body, err := r.signBody(protected)
			if err != nil {
				return err
			}
			signedBody = body
		}

		resp, transportErr := r.dispatch(signedBody)
		if transportErr != nil {
			return wrapTransportErr(transportErr)
		}

		r.session.refreshNonce(resp)

		outcome := r.classify(resp)
		if outcome != nil && outcome.Kind == KindTransient {
			if r.retriesLeft > 0 {
				r.retriesLeft--
				r.session.metrics.retries.Inc()
				r.session.log.V(1).Info("retrying after transient ACME error",
					"url", r.url, "detail", outcome.Error(), "retries_left", r.retriesLeft)
				continue
			}
			r.session.log.Info("retry budget exhausted", "url", r.url, "detail", outcome.Error())
			return outcome
		}
		if outcome != nil {
			r.session.log.Error(outcome, "ACME request failed", "url", r.url, "kind", outcome.Kind.String())
		}
		return outcome
	}
}

// signBody serializes the Request's payload, if any, and signs it via the
// session's Signer. Empty payloads (e.g. POST-as-GET) are signed over an
// empty JSON object body, per RFC 8555 §6.3.
func (r *Request) signBody(protected map[string]interface{}) ([]byte, *Error) {
	var payload []byte
	if r.Payload != nil {
		p, err := r.Payload.MarshalCompact()
		if err != nil {
			return nil, wrapError(KindInvalid, err, "marshal request payload")
		}
		payload = p
	} else {
		payload = []byte("{}")
	}

	keyID, err := r.keyIdentifier()
	if err != nil {
		return nil, err
	}

	signed, sigErr := r.session.signer.Sign(payload, protected, r.session.accountKey, keyID)
	if sigErr != nil {
		return nil, wrapError(KindInvalid, sigErr, "sign request body")
	}
	return signed, nil
}

// keyIdentifier resolves the JWS key-identifier argument: V1 always embeds
// the public key (empty keyID); V2 uses kid once an account URL is bound,
// and explicitly rejects an account present with an empty URL rather than
// silently falling back to jwk.
func (r *Request) keyIdentifier() (string, *Error) {
	if r.session.dialect != DialectV2 {
		return "", nil
	}
	if r.session.account == nil {
		return "", nil
	}
	if r.session.account.ID == "" {
		return "", newError(KindInvalid, "account present but has no URL; cannot sign with kid")
	}
	return r.session.account.ID, nil
}

func (r *Request) dispatch(signedBody []byte) (*transport.Response, error) {
	ctx := context.Background()
	switch r.method {
	case MethodGet:
		return doSync(func(complete transport.CompletionFunc) {
			r.session.transport.Get(ctx, r.url, nil, complete)
		})
	case MethodHead:
		return doSync(func(complete transport.CompletionFunc) {
			r.session.transport.Head(ctx, r.url, nil, complete)
		})
	default:
		return doSync(func(complete transport.CompletionFunc) {
			r.session.transport.Post(ctx, r.url, nil, joseContentType, signedBody, complete)
		})
	}
}

// classify demultiplexes a completed response into the Request's terminal
// outcome: success dispatches to OnJSON or OnRaw; failure is classified via
// the problem-document taxonomy.
func (r *Request) classify(resp *transport.Response) *Error {
	if resp.Status >= 200 && resp.Status < 300 {
		if r.method == MethodHead {
			// HEAD carries no body to hand to OnJSON/OnRaw; a 2xx status is
			// itself the whole outcome.
			return nil
		}
		if r.completion.OnJSON != nil {
			body, err := ParseJSONResponse(resp.ContentType, resp.Body)
			switch {
			case err == nil:
				return r.completion.OnJSON(resp.Status, body)
			case err != ErrNotJSON:
				return wrapError(KindInvalid, err, "parse JSON response")
			}
			// ErrNotJSON: fall through to OnRaw.
		}
		if r.completion.OnRaw != nil {
			return r.completion.OnRaw(resp.Status, resp.ContentType, resp.Body)
		}
		return newError(KindInvalid, "2xx response but no handler could consume it")
	}
	return errorForResponse(resp.Status, resp.ContentType, resp.Body)
}

// asError normalizes the pre-flight errors ensureDialect/ensureNonce return
// (already *Error) without consuming a retry slot.
func asError(err error) *Error {
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return wrapError(KindGeneral, err, "pre-flight failure")
}
