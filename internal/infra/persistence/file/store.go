// Package file stores documents as .ft files on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"familytree/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// Store maps document names to paths. Relative names resolve under root and
// absolute names are used as given; the .ft extension is appended when missing.
type Store struct {
	root string
}

// NewStore returns a file store rooted at root (default: the working directory).
func NewStore(root string) (*Store, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() domain.StorageDriver { return domain.StorageFile }

// Path returns the file a document name resolves to.
func (s *Store) Path(name string) (string, error) {
	n, err := domain.CanonicalDocumentName(name)
	if err != nil {
		return "", err
	}
	p := filepath.FromSlash(n) + domain.DocumentExtension
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(s.root, p), nil
}

// SaveDocument writes doc to a temporary file in the target directory and renames
// it over the destination, so a failed save never leaves a truncated document.
func (s *Store) SaveDocument(_ context.Context, name string, doc []byte) (retErr error) {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ft-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) LoadDocument(_ context.Context, name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- document paths are chosen by the operator
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListDocuments returns the names of .ft files below root, slash separated and
// without the extension.
func (s *Store) ListDocuments(context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), domain.DocumentExtension) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), domain.DocumentExtension))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
