package booking

import (
	"time"

	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
)

const (
	FullRefundDays    = 7
	PartialRefundDays = 3
)

// Refund is a computed cancellation quote; no payment is reversed.
type Refund struct {
	Percent          int
	Amount           money.Money
	Fee              money.Money
	DaysUntilCheckIn int
	At               time.Time
}

// RefundPercent maps days before check-in to the refunded share of the total.
func RefundPercent(daysUntilCheckIn int) int {
	switch {
	case daysUntilCheckIn >= FullRefundDays:
		return 100
	case daysUntilCheckIn >= PartialRefundDays:
		return 50
	default:
		return 0
	}
}

func RefundFor(total money.Money, checkIn, now time.Time) Refund {
	days := daterange.DaysUntil(now, checkIn)
	percent := RefundPercent(days)
	amount := total.Percent(percent)
	return Refund{
		Percent:          percent,
		Amount:           amount,
		Fee:              money.Money{Amount: total.Amount - amount.Amount, Currency: total.Currency},
		DaysUntilCheckIn: days,
		At:               now.UTC(),
	}
}
