package acme

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	if KindInvalid.String() != "INVALID" {
		t.Errorf("got %q", KindInvalid.String())
	}
	if KindOK.String() != "OK" {
		t.Errorf("got %q", KindOK.String())
	}
}

func TestIsKind(t *testing.T) {
	err := newError(KindForbidden, "nope")
	if !IsKind(err, KindForbidden) {
		t.Error("expected IsKind to match")
	}
	if IsKind(err, KindNotFound) {
		t.Error("expected IsKind not to match a different kind")
	}
	if IsKind(errors.New("plain error"), KindForbidden) {
		t.Error("IsKind should not match a non-*Error")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := wrapError(KindGeneral, cause, "context")
	if errors.Unwrap(wrapped) == nil {
		t.Error("expected Unwrap to return a non-nil cause")
	}
}

func TestErrorStringsIncludeDetailOrProblem(t *testing.T) {
	e1 := newError(KindInvalid, "bad thing: %d", 42)
	if !strings.Contains(e1.Error(), "bad thing: 42") {
		t.Errorf("error string %q does not include its detail", e1.Error())
	}

	e2 := &Error{Kind: KindTransient, Problem: &Problem{Type: "urn:ietf:params:acme:error:badNonce", Detail: "stale"}}
	if s := e2.Error(); !strings.Contains(s, "urn:ietf:params:acme:error:badNonce") || !strings.Contains(s, "stale") {
		t.Errorf("error string %q does not include its problem type and detail", s)
	}
}
