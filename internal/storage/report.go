package storage

import (
	"context"

	"subledger/internal/log"
	"subledger/internal/metrics"
)

func reportRejections(ctx context.Context, logger *log.Logger, slot string, rejected []Rejection) {
	for _, rj := range rejected {
		metrics.StorageDroppedRecords.Inc()
		logger.WarnContext(ctx, "Dropped invalid persisted record",
			log.FieldSlot, slot,
			"index", rj.Index,
			log.FieldSubscriptionID, rj.ID,
			log.FieldReason, rj.Reason)
	}
}
