package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"familytree/internal/blob"
	"familytree/internal/core"
	"familytree/internal/infra/persistence/blobdoc"
	"familytree/internal/infra/persistence/file"
	"familytree/internal/infra/persistence/memory"
	"familytree/internal/infra/persistence/sqlite"
	"familytree/pkg/domain"
)

type storeVariant struct {
	name string
	open func(t *testing.T) domain.PersistentStore
}

// storeVariants lists every in-process document store, including the blob-backed
// store over each blob adapter.
func storeVariants() []storeVariant {
	blobBacked := func(open func(t *testing.T) blob.Store) func(t *testing.T) domain.PersistentStore {
		return func(t *testing.T) domain.PersistentStore {
			s, err := blobdoc.NewStore(open(t), "trees")
			if err != nil {
				t.Fatalf("new blob document store: %v", err)
			}
			return s
		}
	}
	return []storeVariant{
		{
			name: "memory-store",
			open: func(_ *testing.T) domain.PersistentStore { return memory.NewStore() },
		},
		{
			name: "file-store",
			open: func(t *testing.T) domain.PersistentStore {
				s, err := file.NewStore(t.TempDir())
				if err != nil {
					t.Fatalf("new file store: %v", err)
				}
				return s
			},
		},
		{
			name: "sqlite-store",
			open: func(t *testing.T) domain.PersistentStore {
				s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "trees.db"))
				if err != nil {
					t.Fatalf("new sqlite store: %v", err)
				}
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
		{
			name: "memory-blob",
			open: blobBacked(func(_ *testing.T) blob.Store { return blob.NewMemory() }),
		},
		{
			name: "filesystem-blob",
			open: blobBacked(func(t *testing.T) blob.Store {
				fs, err := blob.NewFilesystem(t.TempDir())
				if err != nil {
					t.Fatalf("new filesystem blob: %v", err)
				}
				return fs
			}),
		},
		{
			name: "mock-s3-blob",
			open: blobBacked(func(_ *testing.T) blob.Store { return blob.NewMockS3ForTests() }),
		},
	}
}

// TestIntegrationSmoke saves and reloads a small tree through every store and
// checks the observability exporters saw both operations.
func TestIntegrationSmoke(t *testing.T) {
	ctx := context.Background()
	for _, v := range storeVariants() {
		t.Run(v.name, func(t *testing.T) {
			metrics := core.NewExpvarMetricsRecorder("")
			var traces bytes.Buffer
			tracer := core.NewJSONTracer(&traces)
			archive, err := core.NewArchive(v.open(t), core.WithMetricsRecorder(metrics), core.WithTracer(tracer))
			if err != nil {
				t.Fatalf("new archive: %v", err)
			}

			addr, err := domain.NewAddress("3", "Hill Lane", "Oakdale", "2000")
			if err != nil {
				t.Fatalf("address: %v", err)
			}
			root, err := domain.NewMember("Ivy", "Stone", domain.GenderFemale, addr, "Founder of the line")
			if err != nil {
				t.Fatalf("member: %v", err)
			}
			tree := archive.CreateEmptyTree()
			tree.SetRoot(root)

			if err := archive.Save(ctx, tree, "stone"); err != nil {
				t.Fatalf("save: %v", err)
			}
			// Saving again replaces the document.
			root.SetLifeDescription("Founder and gardener")
			if err := archive.Save(ctx, tree, "stone.ft"); err != nil {
				t.Fatalf("resave: %v", err)
			}
			loaded, err := archive.Load(ctx, "stone")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got := loaded.Root(); got.ID() != root.ID() || got.LifeDescription() != "Founder and gardener" {
				t.Fatalf("unexpected root after reload: %v %q", got, got.LifeDescription())
			}
			names, err := archive.List(ctx)
			if err != nil || len(names) != 1 || names[0] != "stone" {
				t.Fatalf("list: %v %v", names, err)
			}

			snap := metrics.Snapshot()
			if snap.Operations[core.OpSave].Success != 2 || snap.Operations[core.OpLoad].Success != 1 {
				t.Fatalf("unexpected metrics %+v", snap.Operations)
			}
			if traces.Len() == 0 || len(tracer.Entries()) != 4 {
				t.Fatalf("expected four spans, got %+v", tracer.Entries())
			}
		})
	}
}
