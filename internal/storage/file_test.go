package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"subledger/internal/log"
)

func TestFileRepository_MissingSlotIsEmpty(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nested"), "subscriptions", log.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	subs, err := repo.Load(context.Background())
	if err != nil || len(subs) != 0 {
		t.Fatalf("expected empty ledger, got %v err=%v", subs, err)
	}
}

func TestFileRepository_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir, "subscriptions", log.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := repo.Save(ctx, sampleSubs()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if repo.Path() != filepath.Join(dir, "subscriptions.json") {
		t.Fatalf("unexpected path %s", repo.Path())
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSubs()) {
		t.Fatalf("mismatch: %+v", got)
	}

	// Overwrite with a shorter ledger; no temp files left behind.
	if err := repo.Save(ctx, sampleSubs()[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the slot file, got %d entries", len(entries))
	}
	got, _ = repo.Load(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 record after overwrite, got %d", len(got))
	}
}

func TestFileRepository_CorruptAndPartialSlots(t *testing.T) {
	dir := t.TempDir()
	repo, _ := NewFileRepository(dir, "subscriptions", log.Discard())
	ctx := context.Background()

	if err := os.WriteFile(repo.Path(), []byte(`{"broken":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(ctx); !errors.Is(err, ErrCorruptSlot) {
		t.Fatalf("expected ErrCorruptSlot, got %v", err)
	}

	partial := `[{"id":"a","name":"Netflix","price":45.9,"renewalDate":"2026-10-22"},{"id":"b"}]`
	if err := os.WriteFile(repo.Path(), []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}
	subs, err := repo.Load(ctx)
	if err != nil || len(subs) != 1 || subs[0].ID != "a" {
		t.Fatalf("expected only the valid record, got %+v err=%v", subs, err)
	}
}
