package backend

import (
	"context"
	"fmt"

	"subledger/internal/ledger"
	"subledger/internal/log"
	"subledger/internal/storage"
	"subledger/internal/storage/memory"
)

var (
	_ ledger.Repository = (*storage.FileRepository)(nil)
	_ ledger.Repository = (*storage.SQLiteRepository)(nil)
	_ ledger.Repository = (*memory.Repository)(nil)
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewFileRepository(config.DataDirectory, config.Slot, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized file backend",
		log.FieldBackend, config.Type.String(),
		log.FieldSlot, config.Slot,
		"path", repo.Path())

	return &BackendResult{Repository: repo}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.Slot, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		log.FieldBackend, config.Type.String(),
		log.FieldSlot, config.Slot,
		"db_path", config.SQLiteDBPath)

	return &BackendResult{
		Repository: repo,
		Cleanup:    repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	f.logger.WarnContext(ctx, "Initialized memory backend, data is lost on exit",
		log.FieldBackend, config.Type.String(),
		log.FieldSlot, config.Slot)

	return &BackendResult{Repository: memory.New()}, nil
}
