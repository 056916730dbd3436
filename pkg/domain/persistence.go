package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// StorageDriver identifies a concrete document storage implementation.
type StorageDriver string

const (
	StorageFile     StorageDriver = "file"     // .ft files on the local filesystem
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBlob     StorageDriver = "blob"     // blob store (filesystem, memory or S3)
)

// ErrDocumentNotFound is returned by stores when no document exists under a name.
var ErrDocumentNotFound = errors.New("document not found")

// PersistentStore is the minimal contract every durable backend implements. Stores
// hold encoded documents; encoding and graph reconstruction live above them.
type PersistentStore interface {
	SaveDocument(ctx context.Context, name string, doc []byte) error
	LoadDocument(ctx context.Context, name string) ([]byte, error)
	ListDocuments(ctx context.Context) ([]string, error)
	Driver() StorageDriver
}

// ErrInvalidDocumentName is returned for blank document names.
var ErrInvalidDocumentName = errors.New("invalid document name")

// CanonicalDocumentName trims name and drops a trailing DocumentExtension so that
// "smith" and "smith.ft" address the same document in every backend.
func CanonicalDocumentName(name string) (string, error) {
	n := strings.TrimSuffix(strings.TrimSpace(name), DocumentExtension)
	if strings.TrimSpace(n) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidDocumentName, name)
	}
	return n, nil
}
