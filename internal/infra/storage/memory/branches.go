package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domainbranches "hotelbooking/internal/domain/branches"
)

var ErrBranchNotFound = fmt.Errorf("memory: %w", domainbranches.ErrBranchNotFound)

type BranchRepository struct {
	mu    sync.RWMutex
	items map[domainbranches.BranchID]domainbranches.Branch
}

func NewBranchRepository() *BranchRepository {
	return &BranchRepository{items: make(map[domainbranches.BranchID]domainbranches.Branch)}
}

func (r *BranchRepository) ByID(ctx context.Context, id domainbranches.BranchID) (*domainbranches.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, ErrBranchNotFound
	}
	return &b, nil
}

func (r *BranchRepository) List(ctx context.Context, filter domainbranches.Filter) ([]*domainbranches.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbranches.Branch, 0, len(r.items))
	for _, b := range r.items {
		if filter.Matches(&b) {
			cp := b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BranchRepository) Insert(ctx context.Context, b *domainbranches.Branch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; ok {
		return false, nil
	}
	r.items[b.ID] = *b
	return true, nil
}

var _ domainbranches.Repository = (*BranchRepository)(nil)
