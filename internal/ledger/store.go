// Package ledger owns the authoritative in-memory subscription list and keeps
// it synchronized with a Repository.
//
// Every successful mutation rewrites the full collection to the repository
// before returning. If the write fails the in-memory list is restored, so the
// two never diverge.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"subledger/internal/aggregate"
	"subledger/internal/core"
	"subledger/internal/log"
	"subledger/internal/metrics"
)

// maxIDAttempts bounds regeneration when a generator returns a taken id.
const maxIDAttempts = 8

var ErrDuplicateID = errors.New("could not generate a unique subscription id")

type Store struct {
	mu      sync.Mutex
	subs    []core.Subscription
	version int64

	repo      Repository
	publisher ChangePublisher
	catalog   core.Catalog
	newID     func() string
	logger    *log.Logger
}

type Option func(*Store)

func WithPublisher(p ChangePublisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithCatalog(c core.Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentLedger) }
}

func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:    repo,
		catalog: core.DefaultCatalog(),
		newID:   uuid.NewString,
		logger:  log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one.
func (s *Store) Load(ctx context.Context) error {
	subs, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	s.mu.Lock()
	s.subs = append([]core.Subscription(nil), subs...)
	count, monthly := len(s.subs), aggregate.TotalMonthly(s.subs)
	s.mu.Unlock()

	metrics.ObserveLedger(count, monthly.Cents)
	s.logger.InfoContext(ctx, "Ledger loaded", log.FieldCount, count)
	return nil
}

// Add validates the draft, appends a new subscription and persists the ledger.
//
// A draft with a blank name, price or renewal date returns ErrIncompleteDraft
// and leaves the ledger untouched. Unparseable prices and dates return
// ErrInvalidPrice / ErrInvalidDate.
func (s *Store) Add(ctx context.Context, d Draft) (core.Subscription, error) {
	p, err := d.parse(s.catalog)
	if err != nil {
		outcome := metrics.OutcomeInvalid
		if errors.Is(err, ErrIncompleteDraft) {
			outcome = metrics.OutcomeIgnored
		}
		metrics.LedgerMutationsTotal.WithLabelValues(log.OpAdd, outcome).Inc()
		s.logger.DebugContext(ctx, "Draft rejected", log.FieldReason, err.Error())
		return core.Subscription{}, err
	}

	icon, color := s.catalog.Presentation(p.name)

	s.mu.Lock()
	id, err := s.uniqueIDLocked()
	if err != nil {
		s.mu.Unlock()
		metrics.LedgerMutationsTotal.WithLabelValues(log.OpAdd, metrics.OutcomeError).Inc()
		return core.Subscription{}, err
	}
	sub := core.Subscription{
		ID:          id,
		Name:        p.name,
		Price:       p.price,
		RenewalDate: p.renewal,
		Category:    p.category,
		Icon:        icon,
		Color:       color,
	}
	next := make([]core.Subscription, len(s.subs), len(s.subs)+1)
	copy(next, s.subs)
	next = append(next, sub)

	version, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		metrics.LedgerMutationsTotal.WithLabelValues(log.OpAdd, metrics.OutcomeError).Inc()
		return core.Subscription{}, err
	}

	metrics.LedgerMutationsTotal.WithLabelValues(log.OpAdd, metrics.OutcomeOK).Inc()
	s.logger.InfoContext(ctx, "Subscription added",
		log.NewFields().
			WithOperation(log.OpAdd).
			WithSubscription(sub.ID, sub.Name, sub.Price.Cents, sub.RenewalDate.String()).
			ToSlice()...)
	s.publish(ctx, version, len(next))
	return sub, nil
}

// Remove drops the subscription with id. An unknown id is not an error; the
// ledger is still rewritten and removed is false.
func (s *Store) Remove(ctx context.Context, id string) (removed bool, err error) {
	s.mu.Lock()
	next := make([]core.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.ID == id {
			removed = true
			continue
		}
		next = append(next, sub)
	}

	version, err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		metrics.LedgerMutationsTotal.WithLabelValues(log.OpRemove, metrics.OutcomeError).Inc()
		return false, err
	}

	if !removed {
		metrics.LedgerMutationsTotal.WithLabelValues(log.OpRemove, metrics.OutcomeIgnored).Inc()
		s.logger.DebugContext(ctx, "Remove of unknown subscription", log.FieldSubscriptionID, id)
		return false, nil
	}

	metrics.LedgerMutationsTotal.WithLabelValues(log.OpRemove, metrics.OutcomeOK).Inc()
	s.logger.InfoContext(ctx, "Subscription removed", log.FieldSubscriptionID, id)
	s.publish(ctx, version, len(next))
	return true, nil
}

// List returns a copy of the ledger in insertion order.
func (s *Store) List() []core.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Subscription(nil), s.subs...)
}

func (s *Store) Get(id string) (core.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.ID == id {
			return sub, true
		}
	}
	return core.Subscription{}, false
}

// Version counts successful mutations since the store was created.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) Catalog() core.Catalog {
	return s.catalog
}

// commitLocked persists next and installs it as the current collection.
func (s *Store) commitLocked(ctx context.Context, next []core.Subscription) (int64, error) {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger",
			log.NewFields().WithOperation(log.OpSave).WithError(err).ToSlice()...)
		return 0, fmt.Errorf("save ledger: %w", err)
	}
	s.subs = next
	s.version++
	metrics.ObserveLedger(len(next), aggregate.TotalMonthly(next).Cents)
	return s.version, nil
}

func (s *Store) uniqueIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && !s.hasIDLocked(id) {
			return id, nil
		}
	}
	return "", ErrDuplicateID
}

func (s *Store) hasIDLocked(id string) bool {
	for _, sub := range s.subs {
		if sub.ID == id {
			return true
		}
	}
	return false
}

// publish never fails the mutation; the ledger is already persisted.
func (s *Store) publish(ctx context.Context, version int64, count int) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChanged(ctx, version, count); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger change",
			log.NewFields().WithOperation(log.OpPublish).WithError(err).ToSlice()...)
	}
}
