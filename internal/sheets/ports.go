package sheets

import (
	"context"

	"subledger/internal/aggregate"
	"subledger/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerExporter mirrors the whole ledger into an external sheet.
	LedgerExporter interface {
		Export(ctx context.Context, subs []core.Subscription, summary aggregate.Summary) error
	}
)
