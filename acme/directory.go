package acme

import (
	"context"

	"github.com/icing/mod_md_acme/transport"
)

// setup fetches the CA's directory document and binds the Session's
// dialect, endpoints, and terms-of-service URL. It is idempotent after the
// first successful call: dialect, once bound, is never reverted, though
// endpoints and ca_agreement are refreshed on every call.
func (s *Session) setup() *Error {
	resp, err := doSync(func(complete transport.CompletionFunc) {
		s.transport.Get(context.Background(), s.baseURL, nil, complete)
	})
	if err != nil {
		return wrapTransportErr(err)
	}
	s.refreshNonce(resp)

	if resp.Status < 200 || resp.Status >= 300 {
		return errorForResponse(resp.Status, resp.ContentType, resp.Body)
	}

	dir, jerr := ParseJSONValue(resp.Body)
	if jerr != nil {
		return wrapError(KindInvalid, jerr, "directory response is not valid JSON")
	}

	switch {
	case dir.Has(dirKeyV1NewAuthz):
		return s.bindV1(dir)
	case dir.Has(dirKeyV2NewAccount):
		return s.bindV2(dir)
	default:
		return newError(KindInvalid, "Unable to understand ACME server response.")
	}
}

// bindV1 binds the legacy draft dialect's endpoints. Any missing required
// endpoint rejects the whole directory rather than partially binding.
func (s *Session) bindV1(dir *JSONValue) *Error {
	newCert, ok1 := dir.GetString(dirKeyV1NewCert)
	newReg, ok2 := dir.GetString(dirKeyV1NewReg)
	revokeCert, ok3 := dir.GetString(dirKeyV1RevokeCert)
	newAuthz, ok4 := dir.GetString(dirKeyV1NewAuthz)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return newError(KindInvalid, "Unable to understand ACME server response.")
	}

	s.endpoints = endpoints{V1: &v1Endpoints{
		NewAuthz:   newAuthz,
		NewCert:    newCert,
		NewReg:     newReg,
		RevokeCert: revokeCert,
	}}
	if tos, ok := dir.GetString(dirKeyV1Meta, dirKeyV1Terms); ok {
		s.caAgreement = tos
	}
	s.dialect = DialectV1
	s.log.V(1).Info("bound ACME directory", "dialect", s.dialect.String())
	return nil
}

// bindV2 binds the RFC 8555 dialect's endpoints.
func (s *Session) bindV2(dir *JSONValue) *Error {
	newAccount, ok1 := dir.GetString(dirKeyV2NewAccount)
	newOrder, ok2 := dir.GetString(dirKeyV2NewOrder)
	revokeCert, ok3 := dir.GetString(dirKeyV2RevokeCert)
	keyChange, ok4 := dir.GetString(dirKeyV2KeyChange)
	newNonce, ok5 := dir.GetString(dirKeyV2NewNonce)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return newError(KindInvalid, "Unable to understand ACME server response.")
	}

	s.endpoints = endpoints{V2: &v2Endpoints{
		NewAccount: newAccount,
		NewOrder:   newOrder,
		RevokeCert: revokeCert,
		KeyChange:  keyChange,
		NewNonce:   newNonce,
	}}
	if tos, ok := dir.GetString(dirKeyV2Meta, dirKeyV2Terms); ok {
		s.caAgreement = tos
	}
	s.dialect = DialectV2
	s.log.V(1).Info("bound ACME directory", "dialect", s.dialect.String())
	return nil
}

// doSync adapts a Transport call — which may invoke its CompletionFunc
// inline (the default implementation) or in a deferred goroutine — into a
// single synchronous (*transport.Response, error) return.
func doSync(call func(complete transport.CompletionFunc)) (*transport.Response, error) {
	type result struct {
		resp *transport.Response
		err  error
	}
	ch := make(chan result, 1)
	call(func(resp *transport.Response, err error) {
		ch <- result{resp: resp, err: err}
	})
	r := <-ch
	return r.resp, r.err
}
