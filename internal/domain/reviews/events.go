package reviews

import (
	"time"

	"hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/rooms"
)

type ReviewSubmitted struct {
	ReviewID  ReviewID          `json:"review_id"`
	BookingID booking.BookingID `json:"booking_id"`
	RoomID    rooms.RoomID      `json:"room_id"`
	Rating    int               `json:"rating"`
	At        time.Time         `json:"at"`
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }

type ReviewUpdated struct {
	ReviewID ReviewID     `json:"review_id"`
	RoomID   rooms.RoomID `json:"room_id"`
	Rating   int          `json:"rating"`
	At       time.Time    `json:"at"`
}

func (e ReviewUpdated) EventName() string     { return "review.updated" }
func (e ReviewUpdated) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewUpdated) OccurredAt() time.Time { return e.At }
