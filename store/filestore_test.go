package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icing/mod_md_acme/acme/resources"
)

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	acct, err := resources.NewAccount([]string{"admin@example.com"}, nil)
	require.NoError(t, err)
	acct.ID = "https://acme.example/acct/1"
	acct.CAURL = "https://acme.example/dir"

	require.NoError(t, fs.SaveAccount(AccountGroup, "my-account", acct))

	loaded, err := fs.LoadAccount(AccountGroup, "my-account")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, loaded.ID)
	assert.Equal(t, acct.CAURL, loaded.CAURL)
	assert.Equal(t, acct.Contact, loaded.Contact)
}

func TestFileStoreLoadMissingAccount(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	_, err := fs.LoadAccount(AccountGroup, "nope")
	assert.Error(t, err)
}
