package loyalty

import (
	"context"
	"errors"
	"time"
)

const (
	GoldThreshold     = 5001
	PlatinumThreshold = 20001

	FirstBookingBonus = 500
	// PaisePerPoint is how many minor currency units earn one point (one point per 100 rupees).
	PaisePerPoint     = 10000
)

const (
	ReasonBooking      = "booking"
	ReasonFirstBooking = "first_booking_bonus"
	ReasonRedeem       = "redeem"
)

var (
	ErrInsufficientPoints = errors.New("loyalty: insufficient points")
	ErrInvalidPoints      = errors.New("loyalty: points must be positive")
	ErrUserRequired       = errors.New("loyalty: user id required")
)

type Tier string

const (
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

func TierFor(points int64) Tier {
	switch {
	case points >= PlatinumThreshold:
		return TierPlatinum
	case points >= GoldThreshold:
		return TierGold
	default:
		return TierSilver
	}
}

// PointsFor returns floor(total/100) points for a total given in paise.
func PointsFor(totalMinor int64) int64 {
	if totalMinor <= 0 {
		return 0
	}
	return totalMinor / PaisePerPoint
}

type Transaction struct {
	Points int64
	Reason string
	At     time.Time
}

type Account struct {
	UserID       string
	Points       int64
	Transactions []Transaction
	UpdatedAt    time.Time
	Version      int64
}

type Repository interface {
	// ByUser returns nil and no error when the user has no account yet.
	ByUser(ctx context.Context, userID string) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

func NewAccount(userID string) (*Account, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	return &Account{UserID: userID}, nil
}

func (a *Account) Tier() Tier {
	return TierFor(a.Points)
}

func (a *Account) Earn(points int64, reason string, now time.Time) error {
	if points <= 0 {
		return ErrInvalidPoints
	}
	a.Points += points
	a.append(points, reason, now)
	return nil
}

func (a *Account) Redeem(points int64, now time.Time) error {
	if points <= 0 {
		return ErrInvalidPoints
	}
	if a.Points < points {
		return ErrInsufficientPoints
	}
	a.Points -= points
	a.append(-points, ReasonRedeem, now)
	return nil
}

func (a *Account) append(points int64, reason string, now time.Time) {
	now = now.UTC()
	a.Transactions = append(a.Transactions, Transaction{Points: points, Reason: reason, At: now})
	a.UpdatedAt = now
}

// Accrual is the set of credits one booking earns.
type Accrual struct {
	Earned int64
	Bonus  int64
}

func (a Accrual) Total() int64 { return a.Earned + a.Bonus }

// AccrualFor computes booking credits. The first-booking bonus does not depend
// on the booking earning any points itself.
func AccrualFor(totalMinor int64, priorBookings int) Accrual {
	acc := Accrual{Earned: PointsFor(totalMinor)}
	if priorBookings == 0 {
		acc.Bonus = FirstBookingBonus
	}
	return acc
}

// Apply credits an accrual to the account, one transaction per reason.
func (a *Account) Apply(acc Accrual, now time.Time) {
	if acc.Earned > 0 {
		_ = a.Earn(acc.Earned, ReasonBooking, now)
	}
	if acc.Bonus > 0 {
		_ = a.Earn(acc.Bonus, ReasonFirstBooking, now)
	}
}
