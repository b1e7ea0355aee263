package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"subledger/internal/core"
	"subledger/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the slot payload as one row of storage_slots.
type SQLiteRepository struct {
	db     *sql.DB
	slot   string
	logger *log.Logger
}

func NewSQLiteRepository(dbPath, slot string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		slot:   slot,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Subscription, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM storage_slots WHERE name = ?`, r.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.InfoContext(ctx, "Storage slot absent, starting empty", log.FieldSlot, r.slot)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", r.slot, err)
	}

	subs, rejected, err := DecodeSubscriptions([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", r.slot, err)
	}
	reportRejections(ctx, r.logger, r.slot, rejected)
	return subs, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, subs []core.Subscription) error {
	data, err := EncodeSubscriptions(subs)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", r.slot, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO storage_slots (name, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		r.slot, string(data))
	if err != nil {
		return fmt.Errorf("write slot %s: %w", r.slot, err)
	}

	r.logger.DebugContext(ctx, "Storage slot written", log.FieldSlot, r.slot, log.FieldCount, len(subs))
	return nil
}
