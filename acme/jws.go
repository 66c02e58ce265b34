package acme

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/pkg/errors"
)

// Signer is the JWS signer external dependency: given a JWS payload, a set
// of protected headers, the signing key, and an optional key identifier,
// produce a flat-serialized signed JSON object. An empty keyID means
// "embed the public key as jwk" rather than reference it by kid.
type Signer interface {
	Sign(payload []byte, protected map[string]interface{}, key crypto.Signer, keyID string) ([]byte, error)
}

// defaultSigner is the Signer backed by go-jose/go-jose/v4, supporting any
// crypto.Signer go-jose recognizes (ECDSA P-256 and RSA).
type defaultSigner struct{}

// NewSigner returns the default go-jose-backed Signer.
func NewSigner() Signer {
	return defaultSigner{}
}

func (defaultSigner) Sign(payload []byte, protected map[string]interface{}, key crypto.Signer, keyID string) ([]byte, error) {
	if key == nil {
		return nil, errors.New("sign: nil signing key")
	}

	extraHeaders := make(map[jose.HeaderKey]interface{}, len(protected))
	for k, v := range protected {
		extraHeaders[jose.HeaderKey(k)] = v
	}

	alg := signatureAlgorithm(key)
	opts := &jose.SignerOptions{ExtraHeaders: extraHeaders}

	var signingKey jose.SigningKey
	if keyID == "" {
		// V1, and V2 pre-registration: embed the public key instead of
		// referencing it by kid.
		signingKey = jose.SigningKey{Key: key, Algorithm: alg}
		opts.EmbedJWK = true
	} else {
		// V2 post-registration: reference the account key by kid.
		signingKey = jose.SigningKey{
			Key:       jose.JSONWebKey{Key: key, Algorithm: string(alg), KeyID: keyID},
			Algorithm: alg,
		}
	}

	signer, err := jose.NewSigner(signingKey, opts)
	if err != nil {
		return nil, errors.Wrap(err, "build JWS signer")
	}

	signed, err := signer.Sign(payload)
	if err != nil {
		return nil, errors.Wrap(err, "sign JWS payload")
	}

	return []byte(signed.FullSerialize()), nil
}

// signatureAlgorithm picks the JWS algorithm for key's concrete type. Used
// at both the embedded-jwk and kid signing paths above.
func signatureAlgorithm(key crypto.Signer) jose.SignatureAlgorithm {
	switch key.(type) {
	case *rsa.PrivateKey:
		return jose.RS256
	case *ecdsa.PrivateKey:
		return jose.ES256
	default:
		return jose.ES256
	}
}
