package dto

import (
	"time"

	domainbooking "hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/shared/daterange"
)

type RefundDTO struct {
	RefundAmount     MoneyDTO `json:"refund_amount"`
	CancellationFee  MoneyDTO `json:"cancellation_fee"`
	RefundPercent    int      `json:"refund_percent"`
	DaysUntilCheckIn int      `json:"days_until_checkin"`
}

func MapRefund(r domainbooking.Refund) RefundDTO {
	return RefundDTO{
		RefundAmount:     MapMoney(r.Amount),
		CancellationFee:  MapMoney(r.Fee),
		RefundPercent:    r.Percent,
		DaysUntilCheckIn: r.DaysUntilCheckIn,
	}
}

type RevisionDTO struct {
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Nights     int       `json:"nights"`
	Total      MoneyDTO  `json:"total_price"`
	ReplacedAt time.Time `json:"replaced_at"`
}

type BookingDTO struct {
	ID             string        `json:"booking_id"`
	UserID         string        `json:"user_id"`
	GuestName      string        `json:"guest_name,omitempty"`
	GuestEmail     string        `json:"guest_email,omitempty"`
	RoomID         string        `json:"room_id"`
	RoomName       string        `json:"room_name,omitempty"`
	BranchID       string        `json:"branch_id"`
	CheckIn        string        `json:"check_in"`
	CheckOut       string        `json:"check_out"`
	Nights         int           `json:"nights"`
	Guests         int           `json:"guests"`
	BasePrice      MoneyDTO      `json:"base_price"`
	Total          MoneyDTO      `json:"total_price"`
	PricingApplied bool          `json:"dynamic_pricing_applied"`
	Status         string        `json:"status"`
	PaymentStatus  string        `json:"payment_status"`
	Refund         *RefundDTO    `json:"refund,omitempty"`
	Revisions      []RevisionDTO `json:"revisions,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	ModifiedAt     *time.Time    `json:"modified_at,omitempty"`
}

func MapBooking(b *domainbooking.Booking) BookingDTO {
	out := BookingDTO{
		ID:             string(b.ID),
		UserID:         b.UserID,
		GuestName:      b.GuestName,
		GuestEmail:     b.GuestEmail,
		RoomID:         string(b.RoomID),
		RoomName:       b.RoomName,
		BranchID:       b.BranchID,
		CheckIn:        b.Range.CheckIn.Format(daterange.DayLayout),
		CheckOut:       b.Range.CheckOut.Format(daterange.DayLayout),
		Nights:         b.Nights,
		Guests:         b.Guests,
		BasePrice:      MapMoney(b.BasePrice),
		Total:          MapMoney(b.Total),
		PricingApplied: b.PricingApplied,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.Refund != nil {
		r := MapRefund(*b.Refund)
		out.Refund = &r
	}
	if !b.ModifiedAt.IsZero() {
		at := b.ModifiedAt
		out.ModifiedAt = &at
	}
	for _, rev := range b.Revisions {
		out.Revisions = append(out.Revisions, RevisionDTO{
			CheckIn:    rev.CheckIn.Format(daterange.DayLayout),
			CheckOut:   rev.CheckOut.Format(daterange.DayLayout),
			Nights:     rev.Nights,
			Total:      MapMoney(rev.Total),
			ReplacedAt: rev.ReplacedAt,
		})
	}
	return out
}

type BookingCollection struct {
	Items []BookingDTO `json:"items"`
}

type BookingStats struct {
	Total       int      `json:"total_bookings"`
	Upcoming    int      `json:"upcoming_bookings"`
	Past        int      `json:"past_bookings"`
	Completed   int      `json:"completed_bookings"`
	Cancelled   int      `json:"cancelled_bookings"`
	TotalSpent  MoneyDTO `json:"total_spent"`
	TotalNights int      `json:"total_nights"`
}

type CreateBookingResult struct {
	Booking        BookingDTO `json:"booking"`
	PointsEarned   int64      `json:"points_earned"`
	PricingApplied bool       `json:"dynamic_pricing_applied"`
}

type CancelBookingResult struct {
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	Refund    RefundDTO `json:"refund"`
}
