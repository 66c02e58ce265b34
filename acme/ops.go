package acme

import (
	"crypto"

	"github.com/go-logr/logr"

	"github.com/icing/mod_md_acme/acme/resources"
	"github.com/icing/mod_md_acme/store"
)

// GET constructs and submits a GET Request. At least one of
// completion.OnJSON/OnRaw must be supplied.
func (s *Session) GET(url string, completion Completion) *Error {
	req, err := newRequest(s, MethodGet, url, completion)
	if err != nil {
		return err
	}
	return req.send()
}

// POST constructs and submits a POST Request, signing whatever payload
// completion.OnInit populates on Request.Payload.
func (s *Session) POST(url string, completion Completion) *Error {
	req, err := newRequest(s, MethodPost, url, completion)
	if err != nil {
		return err
	}
	return req.send()
}

// HEAD constructs and submits a HEAD Request. A 2xx response is itself the
// whole outcome: HEAD carries no body, so it skips the OnJSON/OnRaw
// dispatch and never touches the nonce cache except the passive refresh any
// response with a Replay-Nonce header triggers.
func (s *Session) HEAD(url string) *Error {
	req, err := newRequest(s, MethodHead, url, Completion{})
	if err != nil {
		return err
	}
	return req.send()
}

// GetJSON is a thin GET wrapper that clones the parsed body and returns it
// directly, for callers that don't need the full Completion shape.
func (s *Session) GetJSON(url string) (*JSONValue, *Error) {
	var out *JSONValue
	err := s.GET(url, Completion{
		OnJSON: func(status int, body *JSONValue) *Error {
			out = body.Clone()
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PostNewAccount dispatches to the dialect's account-creation endpoint
// (new-reg for V1, newAccount for V2), signing with key — there is no
// account bound yet, so the key can't come from s.accountKey. onInit
// populates the registration payload (contact addresses, terms agreement,
// etc; constructing that payload is up to the caller, beyond providing
// the hook).
func (s *Session) PostNewAccount(key crypto.Signer, onInit InitFunc, onJSON JSONHandler) *Error {
	endpoint, ok := s.postNewAccountEndpoint()
	if !ok {
		return newError(KindInvalid, "no account-creation endpoint bound for dialect %s", s.dialect)
	}

	prevKey, prevAccount := s.accountKey, s.account
	s.accountKey = key
	s.account = nil // no kid yet: forces the V2 embedded-jwk path
	defer func() {
		s.accountKey, s.account = prevKey, prevAccount
	}()

	return s.POST(endpoint, Completion{OnInit: onInit, OnJSON: onJSON})
}

// UseAccount loads (account, key) for id from st and binds it to the
// Session, rejecting with KindNotFound an account registered against a
// different CA URL — the account belongs to a different CA or dialect
// endpoint on the same host.
func (s *Session) UseAccount(st store.Store, id string) *Error {
	acct, err := st.LoadAccount(store.AccountGroup, id)
	if err != nil {
		return wrapError(KindNotFound, err, "load account %q", id)
	}
	if acct.CAURL != "" && acct.CAURL != s.baseURL {
		return newError(KindNotFound, "account %q is bound to %q, not %q", id, acct.CAURL, s.baseURL)
	}

	s.accountID = id
	s.account = acct
	s.accountKey = acct.Key
	return nil
}

// SaveAccount delegates to st, stamping the Session's base URL onto the
// account before persisting it.
func (s *Session) SaveAccount(st store.Store) *Error {
	if s.account == nil || s.accountID == "" {
		return newError(KindInvalid, "no account bound to save")
	}
	s.account.CAURL = s.baseURL
	if err := st.SaveAccount(store.AccountGroup, s.accountID, s.account); err != nil {
		return wrapError(KindGeneral, err, "save account %q", s.accountID)
	}
	return nil
}

// ClearAccount zeroes the account triple. Errors never clear the account
// triple implicitly — only this does.
func (s *Session) ClearAccount() {
	s.accountID = ""
	s.account = nil
	s.accountKey = nil
}

// AccountID returns the store-local id UseAccount was called with, or ""
// if no account is bound.
func (s *Session) AccountID() string { return s.accountID }

// AccountURL returns the bound account's URL (its ID, which V2 uses as the
// key identifier, kid), or "" if no account is bound. The value is returned
// whatever the dialect; V1 signing never uses it as a kid.
func (s *Session) AccountURL() string {
	if s.account == nil {
		return ""
	}
	return s.account.ID
}

// BindAccount attaches an in-memory account and key directly to the
// Session, bypassing the store — used right after a successful
// PostNewAccount registration, before the caller has a chance to persist
// it.
func (s *Session) BindAccount(id string, account *resources.Account, key crypto.Signer) {
	s.accountID = id
	s.account = account
	s.accountKey = key
}

// WithLogger returns a shallow copy of the Config with Log set, a small
// convenience for chaining logr.Logger injection onto construction.
func (c Config) WithLogger(log logr.Logger) Config {
	c.Log = log
	return c
}
