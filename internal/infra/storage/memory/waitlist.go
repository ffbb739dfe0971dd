package memory

import (
	"context"
	"fmt"
	"sync"

	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

var ErrWaitlistEntryNotFound = fmt.Errorf("memory: %w", domainwaitlist.ErrEntryNotFound)

type WaitlistRepository struct {
	mu    sync.RWMutex
	items map[domainwaitlist.EntryID]domainwaitlist.Entry
	order []domainwaitlist.EntryID
}

func NewWaitlistRepository() *WaitlistRepository {
	return &WaitlistRepository{items: make(map[domainwaitlist.EntryID]domainwaitlist.Entry)}
}

func (r *WaitlistRepository) ByID(ctx context.Context, id domainwaitlist.EntryID) (*domainwaitlist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	if !ok {
		return nil, ErrWaitlistEntryNotFound
	}
	return &e, nil
}

func (r *WaitlistRepository) Save(ctx context.Context, e *domainwaitlist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	r.items[e.ID] = *e
	return nil
}

// List returns matching entries in the order guests joined.
func (r *WaitlistRepository) List(ctx context.Context, filter domainwaitlist.Filter) ([]*domainwaitlist.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainwaitlist.Entry, 0)
	for _, id := range r.order {
		e := r.items[id]
		if filter.Matches(&e) {
			out = append(out, &e)
		}
	}
	return out, nil
}

var _ domainwaitlist.Repository = (*WaitlistRepository)(nil)
