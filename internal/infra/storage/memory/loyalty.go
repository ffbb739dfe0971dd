package memory

import (
	"context"
	"slices"
	"sync"

	domainloyalty "hotelbooking/internal/domain/loyalty"
)

type LoyaltyRepository struct {
	mu    sync.RWMutex
	items map[string]domainloyalty.Account
}

func NewLoyaltyRepository() *LoyaltyRepository {
	return &LoyaltyRepository{items: make(map[string]domainloyalty.Account)}
}

func (r *LoyaltyRepository) ByUser(ctx context.Context, userID string) (*domainloyalty.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[userID]
	if !ok {
		return nil, nil
	}
	a.Transactions = slices.Clone(a.Transactions)
	return &a, nil
}

func (r *LoyaltyRepository) Save(ctx context.Context, a *domainloyalty.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.Version++
	cp := *a
	cp.Transactions = slices.Clone(a.Transactions)
	r.items[a.UserID] = cp
	return nil
}

var _ domainloyalty.Repository = (*LoyaltyRepository)(nil)
