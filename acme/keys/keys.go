// Package keys is the account-key codec store.Store needs: it serializes a
// crypto.Signer to the (bytes, type-tag) pair a Store persists and parses
// one back, and generates a fresh key when an Account is created without
// one. It carries no JWS/JWK concerns — those live in acme.Signer, next to
// the code that actually signs with them.
package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
)

// MarshalSigner serializes signer to its raw key bytes plus a type tag
// ("ecdsa" or "rsa"), the shape store.Store persists an account key as.
func MarshalSigner(signer crypto.Signer) ([]byte, string, error) {
	switch k := signer.(type) {
	case *ecdsa.PrivateKey:
		keyBytes, err := x509.MarshalECPrivateKey(k)
		if err != nil {
			return nil, "", err
		}
		return keyBytes, "ecdsa", nil
	case *rsa.PrivateKey:
		return x509.MarshalPKCS1PrivateKey(k), "rsa", nil
	default:
		return nil, "", fmt.Errorf("signer was unknown type: %T", k)
	}
}

// UnmarshalSigner is the inverse of MarshalSigner.
func UnmarshalSigner(keyBytes []byte, keyType string) (crypto.Signer, error) {
	switch keyType {
	case "ecdsa":
		return x509.ParseECPrivateKey(keyBytes)
	case "rsa":
		return x509.ParsePKCS1PrivateKey(keyBytes)
	default:
		return nil, fmt.Errorf("unknown key type %q", keyType)
	}
}

// NewSigner generates a fresh random key of the given type ("ecdsa" or
// "rsa"), used by resources.NewAccount when no key is supplied.
func NewSigner(keyType string) (crypto.Signer, error) {
	switch keyType {
	case "ecdsa":
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case "rsa":
		return rsa.GenerateKey(rand.Reader, 2048)
	default:
		return nil, fmt.Errorf("unknown key type: %q", keyType)
	}
}
