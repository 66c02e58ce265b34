package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/icing/mod_md_acme/acme/resources"
)

// FileStore is the reference Store implementation: one JSON file per
// account, under <Dir>/<group>/<id>.json.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// lazily on first save, not here.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(group Group, id string) string {
	return filepath.Join(s.Dir, string(group), fmt.Sprintf("%s.json", id))
}

func (s *FileStore) LoadAccount(group Group, id string) (*resources.Account, error) {
	data, err := os.ReadFile(s.path(group, id))
	if err != nil {
		return nil, errors.Wrapf(err, "load account %q", id)
	}
	acct, err := resources.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode account %q", id)
	}
	return acct, nil
}

func (s *FileStore) SaveAccount(group Group, id string, account *resources.Account) error {
	if account == nil {
		return errors.New("save account: account must not be nil")
	}
	data, err := account.Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode account %q", id)
	}
	dir := filepath.Join(s.Dir, string(group))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create account store dir %q", dir)
	}
	return os.WriteFile(s.path(group, id), data, 0o600)
}
