// Package branches is the read model of hotel branches: where they are, who
// runs them and which room types they offer.
package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/domain/shared/money"
)

var (
	ErrBranchNotFound = errors.New("branches: branch not found")
	ErrBranchExists   = errors.New("branches: branch id already registered")
	ErrInvalidBranch  = errors.New("branches: invalid branch")
)

type BranchID string

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Default front desk times applied when a branch omits them.
const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "12:00"
)

type Location struct {
	Address   string
	City      string
	State     string
	Pincode   string
	Latitude  float64
	Longitude float64
}

type Contact struct {
	Phone   string
	Email   string
	Manager string
}

type Branch struct {
	ID            BranchID
	Name          string
	Location      Location
	Contact       Contact
	Amenities     []string
	CheckInTime   string
	CheckOutTime  string
	TotalRooms    int
	RoomTypes     []string
	StartingPrice money.Money
	Status        Status
	CreatedAt     time.Time
}

// Filter narrows a branch listing. City compares case-insensitively.
type Filter struct {
	Status Status
	City   string
}

func (f Filter) Matches(b *Branch) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.City != "" && !strings.EqualFold(b.Location.City, strings.TrimSpace(f.City)) {
		return false
	}
	return true
}

// Repository lists branches ordered by id.
type Repository interface {
	ByID(ctx context.Context, id BranchID) (*Branch, error)
	List(ctx context.Context, filter Filter) ([]*Branch, error)
	// Insert stores the branch unless its id is taken and reports whether it did.
	Insert(ctx context.Context, branch *Branch) (bool, error)
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusActive, StatusInactive:
		return s, nil
	case "":
		return StatusActive, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidBranch, raw)
}

// Normalize fills defaults and validates the branch in place.
func (b *Branch) Normalize(now time.Time) error {
	b.ID = BranchID(strings.TrimSpace(string(b.ID)))
	b.Name = strings.TrimSpace(b.Name)
	if b.ID == "" || b.Name == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidBranch)
	}
	if b.TotalRooms < 0 {
		return fmt.Errorf("%w: total rooms cannot be negative", ErrInvalidBranch)
	}
	if b.CheckInTime == "" {
		b.CheckInTime = DefaultCheckInTime
	}
	if b.CheckOutTime == "" {
		b.CheckOutTime = DefaultCheckOutTime
	}
	for _, clock := range []string{b.CheckInTime, b.CheckOutTime} {
		if _, err := time.Parse("15:04", clock); err != nil {
			return fmt.Errorf("%w: front desk time %q is not HH:MM", ErrInvalidBranch, clock)
		}
	}
	status, err := ParseStatus(string(b.Status))
	if err != nil {
		return err
	}
	b.Status = status
	if b.StartingPrice.Currency == "" {
		b.StartingPrice.Currency = money.DefaultCurrency
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return nil
}
