package dto

import (
	"time"

	"hotelbooking/internal/domain/shared/daterange"
	domainwaitlist "hotelbooking/internal/domain/waitlist"
)

type WaitlistEntryDTO struct {
	ID         string     `json:"waitlist_id"`
	UserID     string     `json:"user_id"`
	RoomID     string     `json:"room_id"`
	RoomName   string     `json:"room_name"`
	BranchID   string     `json:"branch_id"`
	CheckIn    string     `json:"check_in,omitempty"`
	CheckOut   string     `json:"check_out,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
}

func MapWaitlistEntry(e *domainwaitlist.Entry) WaitlistEntryDTO {
	out := WaitlistEntryDTO{
		ID:        string(e.ID),
		UserID:    e.UserID,
		RoomID:    string(e.RoomID),
		RoomName:  e.RoomName,
		BranchID:  e.BranchID,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
	if !e.Range.CheckIn.IsZero() {
		out.CheckIn = e.Range.CheckIn.Format(daterange.DayLayout)
		out.CheckOut = e.Range.CheckOut.Format(daterange.DayLayout)
	}
	if !e.NotifiedAt.IsZero() {
		at := e.NotifiedAt
		out.NotifiedAt = &at
	}
	return out
}

type WaitlistCollection struct {
	Items []WaitlistEntryDTO `json:"items"`
}
