// Package blobdoc stores documents as objects in a blob store (filesystem, memory
// or S3-compatible).
package blobdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"familytree/internal/blob"
	"familytree/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// MetadataName is the blob metadata key holding the canonical document name.
const MetadataName = "document-name"

// Store maps a document name to the key <prefix><name>.ft.
type Store struct {
	blobs  blob.Store
	prefix string
}

// NewStore wraps blobs. A non-empty prefix gains a trailing slash when missing.
func NewStore(blobs blob.Store, prefix string) (*Store, error) {
	if blobs == nil {
		return nil, errors.New("blob store required")
	}
	prefix = strings.TrimLeft(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{blobs: blobs, prefix: prefix}, nil
}

func (s *Store) Driver() domain.StorageDriver { return domain.StorageBlob }

// BlobDriver reports which blob backend holds the documents.
func (s *Store) BlobDriver() blob.Driver { return s.blobs.Driver() }

// Key returns the blob key a document name maps to.
func (s *Store) Key(name string) (string, error) {
	n, err := domain.CanonicalDocumentName(name)
	if err != nil {
		return "", err
	}
	return s.prefix + n + domain.DocumentExtension, nil
}

func (s *Store) SaveDocument(ctx context.Context, name string, doc []byte) error {
	key, err := s.Key(name)
	if err != nil {
		return err
	}
	_, err = s.blobs.Put(ctx, key, bytes.NewReader(doc), blob.PutOptions{
		ContentType: domain.DocumentContentType,
		Metadata:    map[string]string{MetadataName: strings.TrimSuffix(strings.TrimPrefix(key, s.prefix), domain.DocumentExtension)},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) LoadDocument(ctx context.Context, name string) ([]byte, error) {
	key, err := s.Key(name)
	if err != nil {
		return nil, err
	}
	_, rc, err := s.blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

// ListDocuments returns the names of .ft blobs under the prefix, already ordered
// by the blob store.
func (s *Store) ListDocuments(ctx context.Context) ([]string, error) {
	infos, err := s.blobs.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", s.prefix, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !strings.HasSuffix(info.Key, domain.DocumentExtension) {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(info.Key, s.prefix), domain.DocumentExtension))
	}
	return names, nil
}
