package acme

// Dialect identifies which ACME protocol generation a Session is bound to.
// It starts UNKNOWN and is set exactly once, on the first successful
// directory fetch, and never changes afterward.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectV1
	DialectV2
)

func (d Dialect) String() string {
	switch d {
	case DialectV1:
		return "v1"
	case DialectV2:
		return "v2"
	default:
		return "unknown"
	}
}

// v1Endpoints holds the legacy draft dialect's directory endpoints.
type v1Endpoints struct {
	NewAuthz   string
	NewCert    string
	NewReg     string
	RevokeCert string
}

// v2Endpoints holds the RFC 8555 dialect's directory endpoints.
type v2Endpoints struct {
	NewAccount string
	NewOrder   string
	RevokeCert string
	KeyChange  string
	NewNonce   string
}

// endpoints is a tagged union: at most one of V1/V2 is populated, and which
// one is populated must agree with Session.dialect.
type endpoints struct {
	V1 *v1Endpoints
	V2 *v2Endpoints
}

func (e endpoints) empty() bool {
	return e.V1 == nil && e.V2 == nil
}

// newNonceEndpoint resolves the dialect's "fetch a fresh nonce from here"
// endpoint. V1 has no dedicated new-nonce resource, so it reuses new-reg,
// which always hands back a Replay-Nonce header.
func (s *Session) newNonceEndpoint() (string, bool) {
	switch s.dialect {
	case DialectV1:
		if s.endpoints.V1 == nil {
			return "", false
		}
		return s.endpoints.V1.NewReg, s.endpoints.V1.NewReg != ""
	case DialectV2:
		if s.endpoints.V2 == nil {
			return "", false
		}
		return s.endpoints.V2.NewNonce, s.endpoints.V2.NewNonce != ""
	default:
		return "", false
	}
}

// postNewAccountEndpoint resolves the dialect's account-creation endpoint.
func (s *Session) postNewAccountEndpoint() (string, bool) {
	switch s.dialect {
	case DialectV1:
		if s.endpoints.V1 == nil {
			return "", false
		}
		return s.endpoints.V1.NewReg, s.endpoints.V1.NewReg != ""
	case DialectV2:
		if s.endpoints.V2 == nil {
			return "", false
		}
		return s.endpoints.V2.NewAccount, s.endpoints.V2.NewAccount != ""
	default:
		return "", false
	}
}
