package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	domainbooking "hotelbooking/internal/domain/booking"
)

var ErrBookingNotFound = fmt.Errorf("memory: %w", domainbooking.ErrBookingNotFound)

// BookingRepository stores booking snapshots in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]domainbooking.Booking
	order []domainbooking.BookingID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	b.Version++
	snapshot := *cloneBooking(*b)
	r.items[b.ID] = snapshot
	return nil
}

// List returns matching bookings in insertion order.
func (r *BookingRepository) List(ctx context.Context, filter domainbooking.Filter) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, id := range r.order {
		b := r.items[id]
		if filter.Matches(&b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

// cloneBooking copies the snapshot without its pending events.
func cloneBooking(b domainbooking.Booking) *domainbooking.Booking {
	cp := b
	cp.Clear()
	cp.Revisions = slices.Clone(b.Revisions)
	if b.Refund != nil {
		refund := *b.Refund
		cp.Refund = &refund
	}
	return &cp
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
