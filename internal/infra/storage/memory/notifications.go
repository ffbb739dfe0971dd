package memory

import (
	"context"
	"fmt"
	"sync"

	domainnotifications "hotelbooking/internal/domain/notifications"
)

var ErrNotificationNotFound = fmt.Errorf("memory: %w", domainnotifications.ErrNotificationNotFound)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[domainnotifications.NotificationID]domainnotifications.Notification
	order []domainnotifications.NotificationID
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[domainnotifications.NotificationID]domainnotifications.Notification)}
}

func (r *NotificationRepository) ByID(ctx context.Context, id domainnotifications.NotificationID) (*domainnotifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	return &n, nil
}

func (r *NotificationRepository) Save(ctx context.Context, n *domainnotifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[n.ID]; !ok {
		r.order = append(r.order, n.ID)
	}
	r.items[n.ID] = *n
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, filter domainnotifications.Filter) ([]*domainnotifications.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainnotifications.Notification, 0)
	for _, id := range r.order {
		n := r.items[id]
		if !filter.Matches(&n) {
			continue
		}
		out = append(out, &n)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var _ domainnotifications.Repository = (*NotificationRepository)(nil)
