package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"familytree/internal/blob/core"
)

func TestStore_MissingHeadGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected head not found, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected get not found, got %v", err)
	}
}

func TestStore_AllBranches(t *testing.T) {
	store := New()
	ctx := context.Background()
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false")
	}
	if _, err := store.Put(ctx, "", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{Metadata: map[string]string{"a": "1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v2")), core.PutOptions{}); err != nil {
		t.Fatalf("replace put: %v", err)
	}
	info, rc, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "v2" || info.Size != 2 || info.Metadata != nil {
		t.Fatalf("expected replaced blob, got %q %+v", b, info)
	}
	if list, err := store.List(ctx, ""); err != nil || len(list) != 1 {
		t.Fatalf("list all: %v %d", err, len(list))
	}
	if list, err := store.List(ctx, "x"); err != nil || len(list) != 0 {
		t.Fatalf("list prefix: %v %d", err, len(list))
	}
	if ok, err := store.Delete(ctx, "k"); err != nil || !ok {
		t.Fatalf("expected delete true")
	}
}

func TestStore_ReturnedMetadataIsCopied(t *testing.T) {
	store := New()
	ctx := context.Background()
	md := map[string]string{"a": "1"}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{Metadata: md}); err != nil {
		t.Fatalf("put: %v", err)
	}
	md["a"] = "changed"
	h, err := store.Head(ctx, "k")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	h.Metadata["a"] = "mutated"
	again, _ := store.Head(ctx, "k")
	if again.Metadata["a"] != "1" {
		t.Fatalf("metadata leaked: %+v", again.Metadata)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
}
