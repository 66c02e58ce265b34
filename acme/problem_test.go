package acme

import "testing"

func TestProblemTypeSuffix(t *testing.T) {
	cases := map[string]string{
		"urn:ietf:params:acme:error:badNonce": "badnonce",
		"urn:acme:error:malformed":            "malformed",
		"BadCSR":                              "badcsr",
		"":                                    "",
	}
	for in, want := range cases {
		if got := problemTypeSuffix(in); got != want {
			t.Errorf("problemTypeSuffix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifyProblem(t *testing.T) {
	cases := []struct {
		problemType string
		want        ErrorKind
	}{
		{"urn:ietf:params:acme:error:badCSR", KindInvalid},
		{"urn:ietf:params:acme:error:badSignatureAlgorithm", KindInvalid},
		{"urn:ietf:params:acme:error:malformed", KindInvalid},
		{"urn:ietf:params:acme:error:badRevocationReason", KindInvalid},
		{"urn:ietf:params:acme:error:badNonce", KindTransient},
		{"urn:ietf:params:acme:error:userActionRequired", KindTransient},
		{"urn:ietf:params:acme:error:invalidContact", KindBadArg},
		{"urn:ietf:params:acme:error:rateLimited", KindBadArg},
		{"urn:ietf:params:acme:error:rejectedIdentifier", KindBadArg},
		{"urn:ietf:params:acme:error:unsupportedIdentifier", KindBadArg},
		{"urn:ietf:params:acme:error:unsupportedContact", KindGeneral},
		{"urn:ietf:params:acme:error:serverInternal", KindGeneral},
		{"urn:ietf:params:acme:error:caa", KindGeneral},
		{"urn:ietf:params:acme:error:dns", KindGeneral},
		{"urn:ietf:params:acme:error:connection", KindGeneral},
		{"urn:ietf:params:acme:error:tls", KindGeneral},
		{"urn:ietf:params:acme:error:incorrectResponse", KindGeneral},
		{"urn:ietf:params:acme:error:unauthorized", KindForbidden},
		{"urn:ietf:params:acme:error:somethingUnheardOf", KindGeneral}, // unknown type falls through
	}
	for _, c := range cases {
		p := &Problem{Type: c.problemType}
		if got := classifyProblem(p); got != c.want {
			t.Errorf("classifyProblem(%q) = %s, want %s", c.problemType, got, c.want)
		}
	}
}

func TestClassifyProblemNilNeverOK(t *testing.T) {
	if got := classifyProblem(nil); got == KindOK {
		t.Fatalf("classifyProblem(nil) must never be KindOK, got %s", got)
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := map[int]ErrorKind{
		400: KindInvalid,
		403: KindForbidden,
		404: KindNotFound,
		500: KindGeneral,
		418: KindGeneral,
	}
	for status, want := range cases {
		if got := classifyStatus(status); got != want {
			t.Errorf("classifyStatus(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestDecodeProblemRequiresProblemContentType(t *testing.T) {
	body := []byte(`{"type":"urn:ietf:params:acme:error:malformed","detail":"oops","status":400}`)
	if _, ok := decodeProblem("application/json", body); ok {
		t.Fatal("decodeProblem should require application/problem+json")
	}
	p, ok := decodeProblem("application/problem+json", body)
	if !ok {
		t.Fatal("decodeProblem should succeed for application/problem+json")
	}
	if p.Type != "urn:ietf:params:acme:error:malformed" || p.Detail != "oops" || p.Status != 400 {
		t.Errorf("unexpected problem: %+v", p)
	}
}

func TestErrorForResponseFallsBackToStatus(t *testing.T) {
	err := errorForResponse(404, "text/plain", nil)
	if err.Kind != KindNotFound {
		t.Errorf("expected KindNotFound, got %s", err.Kind)
	}
}
