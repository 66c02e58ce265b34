// Package resources provides types for representing ACME protocol resources
// consumed by the session and request pipeline.
package resources

import (
	"crypto"
	"encoding/json"
	"fmt"

	"github.com/icing/mod_md_acme/acme/keys"
)

// Account holds the session-level account triple a Session binds to:
// server-assigned identity, contact information, and signing key. Order
// tracking is not part of this triple; it belongs to higher-level order
// management, not the session layer.
//
// The ID field holds the server-assigned account URL (the V2 key
// identifier, or kid) once the account has been created or loaded; it is
// empty for an in-memory account not yet registered.
//
// CAURL records the directory base URL the account was registered against.
// UseAccount rejects loading an account whose CAURL doesn't match the
// Session it's being loaded into.
type Account struct {
	ID      string
	Contact []string
	Key     crypto.Signer
	CAURL   string
}

// String returns the Account's ID, or an empty string if it has not yet
// been registered with the ACME server.
func (a *Account) String() string {
	if a == nil {
		return ""
	}
	return a.ID
}

// NewAccount builds an in-memory Account from contact emails and a signing
// key. If key is nil a fresh ECDSA P-256 key is generated. The account has
// no ID and no CAURL until it is registered and bound to a Session.
func NewAccount(emails []string, key crypto.Signer) (*Account, error) {
	var contacts []string
	for _, e := range emails {
		if e == "" {
			continue
		}
		contacts = append(contacts, fmt.Sprintf("mailto:%s", e))
	}

	if key == nil {
		randKey, err := keys.NewSigner("ecdsa")
		if err != nil {
			return nil, err
		}
		key = randKey
	}

	return &Account{Contact: contacts, Key: key}, nil
}

// rawAccount is the on-disk serialization shape: the key is split into its
// raw bytes plus a type tag so both ECDSA and RSA signers round-trip.
type rawAccount struct {
	ID       string   `json:"id"`
	Contact  []string `json:"contact,omitempty"`
	CAURL    string   `json:"caUrl,omitempty"`
	KeyType  string   `json:"keyType"`
	KeyBytes []byte   `json:"keyBytes"`
}

// Marshal serializes the account to the format Unmarshal reads back.
// Exported so a caller's own store.Store implementation can reuse it
// without depending on file layout.
func (a *Account) Marshal() ([]byte, error) {
	keyBytes, keyType, err := keys.MarshalSigner(a.Key)
	if err != nil {
		return nil, fmt.Errorf("marshal account key: %w", err)
	}
	raw := rawAccount{
		ID:       a.ID,
		Contact:  a.Contact,
		CAURL:    a.CAURL,
		KeyType:  keyType,
		KeyBytes: keyBytes,
	}
	return json.MarshalIndent(raw, "", "  ")
}

// Unmarshal decodes an account previously produced by Marshal.
func Unmarshal(data []byte) (*Account, error) {
	var raw rawAccount
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	key, err := keys.UnmarshalSigner(raw.KeyBytes, raw.KeyType)
	if err != nil {
		return nil, fmt.Errorf("unmarshal account key: %w", err)
	}
	return &Account{
		ID:      raw.ID,
		Contact: raw.Contact,
		CAURL:   raw.CAURL,
		Key:     key,
	}, nil
}
