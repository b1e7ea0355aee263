// Package memory is an in-process stand-in for the ledger storage slot.
package memory

import (
	"context"
	"sync"

	"subledger/internal/core"
)

type Repository struct {
	mu     sync.Mutex
	items  []core.Subscription
	saves  int
	failOn error
}

// New returns a repository pre-seeded with subs.
func New(subs ...core.Subscription) *Repository {
	return &Repository{items: append([]core.Subscription(nil), subs...)}
}

func (r *Repository) Load(_ context.Context) ([]core.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Subscription(nil), r.items...), nil
}

func (r *Repository) Save(_ context.Context, subs []core.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != nil {
		return r.failOn
	}
	r.items = append([]core.Subscription(nil), subs...)
	r.saves++
	return nil
}

// FailSaves makes every following Save return err; nil restores normal behaviour.
func (r *Repository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn = err
}

// Saves reports how many successful writes happened.
func (r *Repository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
