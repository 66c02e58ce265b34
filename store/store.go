// Package store defines the account-persistence interface the acme package
// consumes, plus a reference file-based implementation. The core neither
// defines nor inspects any on-disk layout beyond what this package chooses
// for its own default.
package store

import "github.com/icing/mod_md_acme/acme/resources"

// Group names a namespace within a Store. The core only ever uses the
// account group.
type Group string

// AccountGroup is the group Session.UseAccount/SaveAccount operate against.
const AccountGroup Group = "accounts"

// Store loads and saves accounts by a caller-chosen id, scoped to a group.
type Store interface {
	LoadAccount(group Group, id string) (*resources.Account, error)
	SaveAccount(group Group, id string, account *resources.Account) error
}
