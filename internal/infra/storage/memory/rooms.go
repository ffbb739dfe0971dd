package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainrooms "hotelbooking/internal/domain/rooms"
)

var (
	// ErrRoomNotFound wraps the domain error so callers can match either.
	ErrRoomNotFound = fmt.Errorf("memory: %w", domainrooms.ErrRoomNotFound)
)

// RoomRepository keeps rooms in memory. Availability swaps run under the
// write lock, so a compare-and-swap cannot interleave with another writer.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainrooms.RoomID]domainrooms.Room
	now   func() time.Time
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainrooms.RoomID]domainrooms.Room), now: time.Now}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

// List returns matching rooms ordered by branch, then id.
func (r *RoomRepository) List(ctx context.Context, filter domainrooms.Filter) ([]*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrooms.Room, 0, len(r.items))
	for _, room := range r.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !filter.Matches(&room) {
			continue
		}
		cp := room
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID == out[j].BranchID {
			return out[i].ID < out[j].ID
		}
		return out[i].BranchID < out[j].BranchID
	})
	return out, nil
}

func (r *RoomRepository) Save(ctx context.Context, room *domainrooms.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[room.ID] = *room
	return nil
}

// Insert stores the room only when its id is unused.
func (r *RoomRepository) Insert(ctx context.Context, room *domainrooms.Room) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[room.ID]; ok {
		return false, nil
	}
	r.items[room.ID] = *room
	return true, nil
}

func (r *RoomRepository) SetAvailability(ctx context.Context, id domainrooms.RoomID, status domainrooms.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.items[id]
	if !ok {
		return ErrRoomNotFound
	}
	room.Availability = status
	room.UpdatedAt = r.now().UTC()
	r.items[id] = room
	return nil
}

func (r *RoomRepository) CompareAndSetAvailability(ctx context.Context, id domainrooms.RoomID, from, to domainrooms.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.items[id]
	if !ok {
		return ErrRoomNotFound
	}
	if room.Availability != from {
		return domainrooms.ErrAvailabilityConflict
	}
	room.Availability = to
	room.UpdatedAt = r.now().UTC()
	r.items[id] = room
	return nil
}

var _ domainrooms.Repository = (*RoomRepository)(nil)
