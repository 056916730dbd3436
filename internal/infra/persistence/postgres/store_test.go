package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"familytree/internal/infra/persistence/postgres/testutil"
	"familytree/pkg/domain"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, _ string) (*sql.DB, error) {
		if driverName != defaultDriver {
			t.Fatalf("unexpected driver %s", driverName)
		}
		return db, nil
	})
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresDocumentsTable(t *testing.T) {
	store, conn := newStubStore(t)
	if store.Driver() != domain.StoragePostgres {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS documents") && strings.Contains(stmt, "JSONB") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected documents DDL, got execs: %v", conn.Execs)
	}
	if store.DB() == nil {
		t.Fatalf("expected db handle")
	}
}

func TestSaveUpsertsAndLoadReturnsLatest(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	if err := store.SaveDocument(ctx, "a", []byte(`{"v":0}`)); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := store.SaveDocument(ctx, "smith", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveDocument(ctx, "smith.ft", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rows := conn.Tables["documents"]; len(rows) != 2 {
		t.Fatalf("expected two rows after upsert, got %d", len(rows))
	}
	got, err := store.LoadDocument(ctx, "smith")
	if err != nil || string(got) != `{"v":2}` {
		t.Fatalf("load: %q %v", got, err)
	}
	names, err := store.ListDocuments(ctx)
	if err != nil || len(names) != 2 || names[0] != "a" || names[1] != "smith" {
		t.Fatalf("list: %v %v", names, err)
	}
	if _, err := store.LoadDocument(ctx, "jones"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.SaveDocument(ctx, "  ", nil); !errors.Is(err, domain.ErrInvalidDocumentName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
}

func TestStoreErrorPaths(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)

	conn.FailBegin = true
	if err := store.SaveDocument(ctx, "x", []byte("{}")); err == nil || !strings.Contains(err.Error(), "begin tx") {
		t.Fatalf("expected begin failure, got %v", err)
	}
	conn.FailBegin = false

	conn.FailCommit = true
	if err := store.SaveDocument(ctx, "x", []byte("{}")); err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit failure, got %v", err)
	}
	conn.FailCommit = false

	conn.FailTables = map[string]bool{"documents": true}
	if err := store.SaveDocument(ctx, "x", []byte("{}")); err == nil || !strings.Contains(err.Error(), "upsert") {
		t.Fatalf("expected upsert failure, got %v", err)
	}
	if _, err := store.LoadDocument(ctx, "x"); err == nil || errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected select failure, got %v", err)
	}
	if _, err := store.ListDocuments(ctx); err == nil {
		t.Fatalf("expected list failure")
	}
}

func TestNewStoreFailures(t *testing.T) {
	ctx := context.Background()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("boom") })
	if _, err := NewStore(ctx, "postgres://example"); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open failure, got %v", err)
	}
	restore()

	db, conn := testutil.NewStubDB()
	conn.FailExec = true
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(ctx, ""); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping failure, got %v", err)
	}
}
