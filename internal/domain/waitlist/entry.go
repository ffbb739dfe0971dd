package waitlist

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
)

// NotifyBatch is how many active entries are notified per room release.
const NotifyBatch = 5

var (
	ErrEntryNotFound = errors.New("waitlist: entry not found")
	ErrNotOwner      = errors.New("waitlist: entry belongs to another guest")
	ErrNotActive     = errors.New("waitlist: entry is not active")
	ErrGuestRequired = errors.New("waitlist: guest id required")
)

type EntryID string

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusNotified  Status = "notified"
)

type Entry struct {
	ID         EntryID
	UserID     string
	Email      string
	RoomID     rooms.RoomID
	RoomName   string
	BranchID   string
	Range      daterange.DateRange
	Status     Status
	CreatedAt  time.Time
	NotifiedAt time.Time
	UpdatedAt  time.Time
}

// Filter narrows a waitlist scan. Zero values match everything.
type Filter struct {
	UserID string
	RoomID rooms.RoomID
	Status Status
}

func (f Filter) Matches(e *Entry) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.RoomID != "" && e.RoomID != f.RoomID {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}

// Repository returns List results in insertion order.
type Repository interface {
	ByID(ctx context.Context, id EntryID) (*Entry, error)
	Save(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, error)
}

type JoinParams struct {
	ID       EntryID
	UserID   string
	Email    string
	Room     *rooms.Room
	Range    daterange.DateRange
	JoinedAt time.Time
}

// Join creates an active entry. A guest may hold several entries for the same room.
func Join(params JoinParams) (*Entry, error) {
	if params.UserID == "" {
		return nil, ErrGuestRequired
	}
	if params.Room == nil {
		return nil, rooms.ErrRoomNotFound
	}
	now := params.JoinedAt.UTC()
	return &Entry{
		ID:        params.ID,
		UserID:    params.UserID,
		Email:     params.Email,
		RoomID:    params.Room.ID,
		RoomName:  params.Room.Name,
		BranchID:  params.Room.BranchID,
		Range:     params.Range,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (e *Entry) Leave(userID string, now time.Time) error {
	if e.UserID != userID {
		return ErrNotOwner
	}
	if e.Status == StatusCancelled {
		return nil
	}
	e.Status = StatusCancelled
	e.UpdatedAt = now.UTC()
	return nil
}

func (e *Entry) MarkNotified(now time.Time) error {
	if e.Status != StatusActive {
		return ErrNotActive
	}
	e.Status = StatusNotified
	e.NotifiedAt = now.UTC()
	e.UpdatedAt = e.NotifiedAt
	return nil
}

// NextToNotify returns up to NotifyBatch active entries for the room, oldest first.
func NextToNotify(entries []*Entry, roomID rooms.RoomID) []*Entry {
	out := make([]*Entry, 0, NotifyBatch)
	for _, e := range entries {
		if e.RoomID != roomID || e.Status != StatusActive {
			continue
		}
		out = append(out, e)
		if len(out) == NotifyBatch {
			break
		}
	}
	return out
}
