package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/domain/shared/money"
)

var (
	ErrRoomNotFound         = errors.New("rooms: room not found")
	ErrRoomUnavailable      = errors.New("rooms: room unavailable")
	ErrAvailabilityConflict = errors.New("rooms: availability changed concurrently")
	ErrInvalidAvailability  = errors.New("rooms: invalid availability status")
	ErrStatusNotAllowed     = errors.New("rooms: status not allowed for staff update")
)

type RoomID string

type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
	Occupied    Availability = "occupied"
	Cleaning    Availability = "cleaning"
	Maintenance Availability = "maintenance"
)

func ParseAvailability(raw string) (Availability, error) {
	a := Availability(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case Available, Unavailable, Occupied, Cleaning, Maintenance:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAvailability, raw)
}

// StaffSettable reports whether staff may set the status directly. Unavailable
// is reserved for the booking flow.
func (a Availability) StaffSettable() bool {
	switch a {
	case Available, Occupied, Cleaning, Maintenance:
		return true
	}
	return false
}

type Room struct {
	ID           RoomID
	BranchID     string
	Name         string
	Type         string
	Capacity     int
	Price        money.Money
	Availability Availability
	UpdatedAt    time.Time
}

func (r *Room) IsAvailable() bool {
	return r.Availability == Available
}

// Filter narrows a room scan. Zero values match everything.
type Filter struct {
	BranchID     string
	Type         string
	MinCapacity  int
	Availability Availability
}

func (f Filter) Matches(r *Room) bool {
	if f.BranchID != "" && r.BranchID != f.BranchID {
		return false
	}
	if f.Type != "" && !strings.EqualFold(r.Type, f.Type) {
		return false
	}
	if f.MinCapacity > 0 && r.Capacity < f.MinCapacity {
		return false
	}
	if f.Availability != "" && r.Availability != f.Availability {
		return false
	}
	return true
}

// Repository is the room store. SetAvailability overwrites unconditionally;
// CompareAndSetAvailability only writes when the stored status equals from and
// returns ErrAvailabilityConflict otherwise.
type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
	SetAvailability(ctx context.Context, id RoomID, status Availability) error
	CompareAndSetAvailability(ctx context.Context, id RoomID, from, to Availability) error
}
