// Package acme provides the ACME (RFC 8555, and its pre-standardization V1
// draft) transport and session layer: directory discovery, nonce-protected
// request signing, and RFC 7807 problem classification.
package acme

const (
	// Directory keys, V1 dialect. See the ACME draft this CA dialect predates
	// RFC 8555.
	dirKeyV1NewAuthz   = "new-authz"
	dirKeyV1NewCert    = "new-cert"
	dirKeyV1NewReg     = "new-reg"
	dirKeyV1RevokeCert = "revoke-cert"
	dirKeyV1Meta       = "meta"
	dirKeyV1Terms      = "terms-of-service"

	// Directory keys, V2 dialect. See https://tools.ietf.org/html/rfc8555#section-9.7.5
	dirKeyV2NewNonce   = "newNonce"
	dirKeyV2NewAccount = "newAccount"
	dirKeyV2NewOrder   = "newOrder"
	dirKeyV2RevokeCert = "revokeCert"
	dirKeyV2KeyChange  = "keyChange"
	dirKeyV2Meta       = "meta"
	dirKeyV2Terms      = "termsOfService"

	// replayNonceHeader is the HTTP response header ACME servers use to
	// communicate a fresh anti-replay nonce. See
	// https://tools.ietf.org/html/rfc8555#section-9.3
	replayNonceHeader = "Replay-Nonce"

	// joseContentType is the Content-Type of every signed ACME request body.
	joseContentType = "application/jose+json"

	// problemContentType is the Content-Type RFC 7807 problem documents use.
	problemContentType = "application/problem+json"

	// maxResponseBytes caps the size of any ACME HTTP response body the
	// Session's transport will read.
	maxResponseBytes = 1024 * 1024

	// defaultMaxRetries is the per-Request retry budget for badNonce/
	// userActionRequired recovery.
	defaultMaxRetries = 3

	// shortNameMaxLen bounds Session.shortName, used only for logging.
	shortNameMaxLen = 16
)
