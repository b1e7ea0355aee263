package ledger

import (
	"context"

	"subledger/internal/core"
)

// Ports for outbound adapters.
type (
	// Repository persists the whole ledger in one storage slot.
	// Load on an empty slot returns an empty slice and no error.
	Repository interface {
		Load(ctx context.Context) ([]core.Subscription, error)
		Save(ctx context.Context, subs []core.Subscription) error
	}

	// ChangePublisher is notified after every persisted mutation.
	ChangePublisher interface {
		PublishLedgerChanged(ctx context.Context, version int64, count int) error
	}
)
