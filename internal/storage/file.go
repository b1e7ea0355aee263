package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"subledger/internal/core"
	"subledger/internal/log"
)

// FileRepository keeps the slot as <dir>/<slot>.json and replaces it
// atomically on every save.
type FileRepository struct {
	path   string
	slot   string
	logger *log.Logger
}

func NewFileRepository(dir, slot string, logger *log.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileRepository{
		path:   filepath.Join(dir, slot+".json"),
		slot:   slot,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

// Path returns the slot file location.
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Load(ctx context.Context) ([]core.Subscription, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.InfoContext(ctx, "Storage slot absent, starting empty", log.FieldSlot, r.slot)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", r.slot, err)
	}

	subs, rejected, err := DecodeSubscriptions(data)
	if err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", r.slot, err)
	}
	reportRejections(ctx, r.logger, r.slot, rejected)
	return subs, nil
}

func (r *FileRepository) Save(ctx context.Context, subs []core.Subscription) error {
	data, err := EncodeSubscriptions(subs)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", r.slot, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+r.slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot %s: %w", r.slot, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync slot %s: %w", r.slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot %s: %w", r.slot, err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace slot %s: %w", r.slot, err)
	}

	r.logger.DebugContext(ctx, "Storage slot written",
		log.FieldSlot, r.slot, log.FieldCount, len(subs), "bytes", len(data))
	return nil
}
