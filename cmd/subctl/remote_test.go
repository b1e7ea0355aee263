package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"subledger/internal/aggregate"
	apphttp "subledger/internal/http"
	"subledger/internal/ledger"
	"subledger/internal/log"
	"subledger/internal/storage/memory"
)

func newRemoteTarget(t *testing.T) (*remoteLedger, *ledger.Store) {
	t.Helper()
	store := ledger.New(memory.New(), ledger.WithLogger(log.Discard()))
	srv, err := apphttp.NewServer(":0", store, aggregate.CeilingWindow{}, log.Discard())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return newRemoteLedger(ts.URL + "/"), store
}

func TestRemoteLedger_AddAndRemoveReachServerMemory(t *testing.T) {
	remote, store := newRemoteTarget(t)
	ctx := context.Background()

	sub, err := remote.add(ctx, "Netflix", "45.90", "2026-10-22", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sub.ID == "" || sub.Price.String() != "45.90" || sub.RenewalDate != "2026-10-22" {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
	if got := store.List(); len(got) != 1 || got[0].ID != sub.ID {
		t.Fatalf("server ledger should hold the new subscription, got %+v", got)
	}

	removed, err := remote.remove(ctx, "missing")
	if err != nil || removed {
		t.Fatalf("unknown id: removed=%v err=%v", removed, err)
	}
	removed, err = remote.remove(ctx, sub.ID)
	if err != nil || !removed {
		t.Fatalf("known id: removed=%v err=%v", removed, err)
	}
	if len(store.List()) != 0 {
		t.Fatalf("server ledger should be empty")
	}
}

func TestRemoteLedger_Rejections(t *testing.T) {
	remote, store := newRemoteTarget(t)
	ctx := context.Background()

	if _, err := remote.add(ctx, "Netflix", "", "2026-10-22", ""); !errors.Is(err, errRemoteIncomplete) {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	_, err := remote.add(ctx, "Netflix", "abc", "2026-10-22", "")
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("expected 422 error, got %v", err)
	}
	if len(store.List()) != 0 {
		t.Fatalf("rejected adds must not reach the ledger")
	}
}

func TestRemoteLedger_Unreachable(t *testing.T) {
	ts := httptest.NewServer(nil)
	base := ts.URL
	ts.Close()

	if _, err := newRemoteLedger(base).remove(context.Background(), "x"); err == nil {
		t.Fatal("expected connection error")
	}
}
