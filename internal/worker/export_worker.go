// Package worker mirrors the persisted ledger into an external spreadsheet,
// either in response to change events or on a fixed interval.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"subledger/internal/aggregate"
	"subledger/internal/amqp"
	"subledger/internal/ledger"
	"subledger/internal/log"
	"subledger/internal/metrics"
	"subledger/internal/sheets"
)

const (
	TriggerEvent    = "event"
	TriggerPeriodic = "periodic"
	TriggerStartup  = "startup"
)

type ExportWorker struct {
	repo     ledger.Repository
	exporter sheets.LedgerExporter
	window   aggregate.RenewalWindow
	slot     string
	now      func() time.Time
	logger   *log.Logger

	// serializes exports so event and ticker runs never interleave writes
	mu sync.Mutex
}

func NewExportWorker(repo ledger.Repository, exporter sheets.LedgerExporter, window aggregate.RenewalWindow, slot string, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		repo:     repo,
		exporter: exporter,
		window:   window,
		slot:     slot,
		now:      time.Now,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerChanged exports after a change to the worker's slot. Events for
// other slots are acknowledged and ignored.
func (w *ExportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	if msg.Slot != w.slot {
		w.logger.DebugContext(ctx, "Ignoring change for another slot",
			log.FieldSlot, msg.Slot, "expected_slot", w.slot)
		return nil
	}
	w.logger.InfoContext(ctx, "Processing ledger change",
		log.FieldSlot, msg.Slot,
		log.FieldVersion, msg.Version,
		log.FieldCount, msg.Count)
	return w.Export(ctx, TriggerEvent)
}

// Export reloads the slot and rewrites the spreadsheet.
func (w *ExportWorker) Export(ctx context.Context, trigger string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	subs, err := w.repo.Load(ctx)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(trigger, metrics.OutcomeError).Inc()
		return fmt.Errorf("load slot %s: %w", w.slot, err)
	}

	summary := aggregate.Summarize(subs, w.now(), w.window)
	if err := w.exporter.Export(ctx, subs, summary); err != nil {
		metrics.ExportsTotal.WithLabelValues(trigger, metrics.OutcomeError).Inc()
		return fmt.Errorf("export slot %s: %w", w.slot, err)
	}

	metrics.ExportsTotal.WithLabelValues(trigger, metrics.OutcomeOK).Inc()
	w.logger.InfoContext(ctx, "Ledger exported",
		log.FieldOperation, log.OpExport,
		log.FieldSlot, w.slot,
		log.FieldCount, len(subs),
		"trigger", trigger)
	return nil
}

// RunPeriodic exports once at startup and then every interval until ctx is
// done. Failed runs are logged and retried on the next tick.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if err := w.Export(ctx, TriggerStartup); err != nil {
		w.logger.ErrorContext(ctx, "Startup export failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Export(ctx, TriggerPeriodic); err != nil {
				w.logger.ErrorContext(ctx, "Periodic export failed", log.FieldError, err)
			}
		}
	}
}
