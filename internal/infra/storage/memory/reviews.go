package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domainbooking "hotelbooking/internal/domain/booking"
	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
)

var ErrReviewNotFound = fmt.Errorf("memory: %w", domainreviews.ErrReviewNotFound)

// ReviewRepository indexes reviews by booking so a stay is reviewed once.
type ReviewRepository struct {
	mu        sync.RWMutex
	items     map[domainreviews.ReviewID]domainreviews.Review
	byBooking map[domainbooking.BookingID]domainreviews.ReviewID
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		items:     make(map[domainreviews.ReviewID]domainreviews.Review),
		byBooking: make(map[domainbooking.BookingID]domainreviews.ReviewID),
	}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.items[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return &review, nil
}

func (r *ReviewRepository) List(ctx context.Context, filter domainreviews.Filter) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreviews.Review, 0)
	for _, review := range r.items {
		if filter.Matches(&review) {
			cp := review
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReviewRepository) Ratings(ctx context.Context, ids []domainrooms.RoomID) (map[domainrooms.RoomID]domainreviews.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := make(map[domainrooms.RoomID][]int, len(ids))
	for _, id := range ids {
		want[id] = nil
	}
	for _, review := range r.items {
		if ratings, ok := want[review.RoomID]; ok {
			want[review.RoomID] = append(ratings, review.Rating)
		}
	}
	out := make(map[domainrooms.RoomID]domainreviews.Rating, len(want))
	for id, ratings := range want {
		if len(ratings) > 0 {
			out[id] = domainreviews.Summarize(ratings)
		}
	}
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.byBooking[review.BookingID]; ok && owner != review.ID {
		return domainreviews.ErrDuplicate
	}
	cp := *review
	cp.Clear()
	r.items[review.ID] = cp
	r.byBooking[review.BookingID] = review.ID
	return nil
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
