// Package memory provides an in-memory document store used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"familytree/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// Store keeps encoded documents in a map guarded by a mutex. Saved and loaded
// payloads are copied so callers never share buffers with the store.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStore returns an empty in-memory store.
func NewStore() *Store { return &Store{docs: make(map[string][]byte)} }

func (s *Store) Driver() domain.StorageDriver { return domain.StorageMemory }

func (s *Store) SaveDocument(_ context.Context, name string, doc []byte) error {
	key, err := domain.CanonicalDocumentName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[key] = slices.Clone(doc)
	s.mu.Unlock()
	return nil
}

func (s *Store) LoadDocument(_ context.Context, name string) ([]byte, error) {
	key, err := domain.CanonicalDocumentName(name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	doc, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, key)
	}
	return slices.Clone(doc), nil
}

func (s *Store) ListDocuments(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
