package acme

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind is the abstract outcome taxonomy every pipeline operation
// terminates in. It deliberately carries no HTTP- or ACME-specific detail of
// its own — that detail, when present, rides along on Error.Problem.
type ErrorKind int

const (
	// KindOK is success. The zero value, so a zeroed Error is never
	// mistaken for a real error by a truthiness check alone; callers must
	// still check for a nil *Error.
	KindOK ErrorKind = iota

	// KindInvalid covers protocol violations: malformed input, an
	// unparseable response, an unknown dialect, missing directory
	// endpoints, a bad CSR, or a bad signature algorithm.
	KindInvalid

	// KindBadArg is a server rejection of the request's arguments: rate
	// limiting, a rejected or unsupported identifier, an invalid contact.
	KindBadArg

	// KindForbidden is an unauthorized request (HTTP 403, or an ACME
	// "unauthorized" problem).
	KindForbidden

	// KindNotFound is HTTP 404, or an account that belongs to a different
	// CA than the one UseAccount was called against.
	KindNotFound

	// KindTransient is badNonce or userActionRequired. The pipeline
	// retries these automatically up to its budget; a caller only ever
	// observes KindTransient once that budget is exhausted.
	KindTransient

	// KindGeneral is the catch-all: unknown problem types, serverInternal,
	// caa/dns/tls/connection/incorrectResponse classes, and any non-problem
	// HTTP error not covered by the other kinds.
	KindGeneral

	// KindNotImplemented is returned for any HTTP method other than
	// GET, HEAD, or POST.
	KindNotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindInvalid:
		return "INVALID"
	case KindBadArg:
		return "BAD_ARG"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTransient:
		return "TRANSIENT"
	case KindGeneral:
		return "GENERAL"
	case KindNotImplemented:
		return "NOT_IMPLEMENTED"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the one error type the acme package returns. It always carries a
// Kind; Problem is populated when the Kind was derived from an RFC 7807
// problem document, and Cause is populated when a lower-level failure
// (transport, JSON, signing) produced it.
type Error struct {
	Kind    ErrorKind
	Problem *Problem
	Detail  string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Problem != nil:
		return fmt.Sprintf("acme: %s: %s (%s)", e.Kind, e.Problem.Type, e.Problem.Detail)
	case e.Detail != "" && e.Cause != nil:
		return fmt.Sprintf("acme: %s: %s: %v", e.Kind, e.Detail, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("acme: %s: %s", e.Kind, e.Detail)
	case e.Cause != nil:
		return fmt.Sprintf("acme: %s: %v", e.Kind, e.Cause)
	default:
		return fmt.Sprintf("acme: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newError builds an *Error with a formatted detail string.
func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// wrapError wraps a lower-level cause with pkg/errors, preserving its chain
// for %+v stack traces, and classifies it under kind.
func wrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Cause: errors.Wrapf(cause, format, args...)}
}

// IsKind reports whether err is an *Error of exactly kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
