package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"subledger/internal/aggregate"
	"subledger/internal/amqp"
	"subledger/internal/core"
	"subledger/internal/log"
	"subledger/internal/storage/memory"
)

type fakeExporter struct {
	mu        sync.Mutex
	calls     int
	lastCount int
	lastSum   aggregate.Summary
	err       error
}

func (f *fakeExporter) Export(_ context.Context, subs []core.Subscription, s aggregate.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCount = len(subs)
	f.lastSum = s
	return f.err
}

func (f *fakeExporter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newWorker(exp *fakeExporter, subs ...core.Subscription) *ExportWorker {
	w := NewExportWorker(memory.New(subs...), exp, aggregate.CalendarWindow{Location: time.UTC}, "subscriptions", log.Discard())
	w.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	return w
}

func TestHandleLedgerChanged(t *testing.T) {
	exp := &fakeExporter{}
	w := newWorker(exp,
		core.Subscription{ID: "a", Name: "Netflix", Price: core.Money{Cents: 4590}, RenewalDate: core.NewDate(2026, 10, 20)},
	)
	ctx := context.Background()

	if err := w.HandleLedgerChanged(ctx, amqp.NewLedgerChangedMessage("other", 1, 1)); err != nil {
		t.Fatalf("other slot: %v", err)
	}
	if exp.Calls() != 0 {
		t.Fatalf("other slot must not trigger an export")
	}

	if err := w.HandleLedgerChanged(ctx, amqp.NewLedgerChangedMessage("subscriptions", 2, 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if exp.Calls() != 1 || exp.lastCount != 1 {
		t.Fatalf("expected one export of 1 subscription, got calls=%d count=%d", exp.Calls(), exp.lastCount)
	}
	if exp.lastSum.TotalMonthly.Cents != 4590 || len(exp.lastSum.Upcoming) != 1 {
		t.Fatalf("unexpected summary %+v", exp.lastSum)
	}
}

func TestExport_PropagatesErrors(t *testing.T) {
	boom := errors.New("quota")
	exp := &fakeExporter{err: boom}
	w := newWorker(exp)
	if err := w.Export(context.Background(), TriggerEvent); !errors.Is(err, boom) {
		t.Fatalf("expected exporter error, got %v", err)
	}
}

func TestRunPeriodic_ExportsOnStartupAndStops(t *testing.T) {
	exp := &fakeExporter{}
	w := newWorker(exp)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.RunPeriodic(ctx, 10*time.Millisecond) }()

	deadline := time.After(2 * time.Second)
	for exp.Calls() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected startup and periodic exports, got %d", exp.Calls())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
