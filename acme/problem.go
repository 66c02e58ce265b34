package acme

import (
	"encoding/json"
	"strings"
)

// Problem is an RFC 7807 problem document as returned by an ACME server on
// any non-2xx response with Content-Type application/problem+json.
type Problem struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// problemKinds maps a problem type's trailing segment (after stripping the
// "urn:ietf:params:acme:error:" or "urn:acme:error:" prefix, compared
// case-insensitively) to its abstract ErrorKind.
var problemKinds = map[string]ErrorKind{
	"badcsr":                 KindInvalid,
	"badsignaturealgorithm":  KindInvalid,
	"malformed":              KindInvalid,
	"badrevocationreason":    KindInvalid,
	"badnonce":               KindTransient,
	"useractionrequired":     KindTransient,
	"invalidcontact":         KindBadArg,
	"ratelimited":            KindBadArg,
	"rejectedidentifier":     KindBadArg,
	"unsupportedidentifier":  KindBadArg,
	"unsupportedcontact":     KindGeneral,
	"serverinternal":         KindGeneral,
	"caa":                    KindGeneral,
	"dns":                    KindGeneral,
	"connection":             KindGeneral,
	"tls":                    KindGeneral,
	"incorrectresponse":      KindGeneral,
	"unauthorized":           KindForbidden,
}

// problemTypeSuffix strips any "urn:...:error:" style prefix from a problem
// type URI, leaving only the trailing segment problemKinds is keyed on.
func problemTypeSuffix(problemType string) string {
	s := strings.ToLower(problemType)
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		s = s[idx+1:]
	}
	return s
}

// classifyProblem maps a decoded Problem to an ErrorKind per the table in
// problemKinds. An unmatched (but non-empty) type always falls through to
// KindGeneral, never KindOK.
func classifyProblem(p *Problem) ErrorKind {
	if p == nil {
		return KindGeneral
	}
	if kind, ok := problemKinds[problemTypeSuffix(p.Type)]; ok {
		return kind
	}
	return KindGeneral
}

// classifyStatus maps a bare HTTP status code, absent any problem+json body,
// to an ErrorKind.
func classifyStatus(status int) ErrorKind {
	switch status {
	case 400:
		return KindInvalid
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	default:
		return KindGeneral
	}
}

// decodeProblem attempts to parse body as an RFC 7807 problem document. It
// returns (nil, false) when body is empty or not a problem+json content
// type — the caller then falls back to classifyStatus.
func decodeProblem(contentType string, body []byte) (*Problem, bool) {
	if len(body) == 0 {
		return nil, false
	}
	if !strings.HasPrefix(strings.ToLower(contentType), problemContentType) {
		return nil, false
	}
	var p Problem
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// errorForResponse classifies a non-2xx ACME HTTP response into an *Error,
// preferring a decoded problem document over the bare status code.
func errorForResponse(status int, contentType string, body []byte) *Error {
	if p, ok := decodeProblem(contentType, body); ok {
		kind := classifyProblem(p)
		return &Error{Kind: kind, Problem: p}
	}
	return &Error{Kind: classifyStatus(status), Detail: "non-problem HTTP error response"}
}
