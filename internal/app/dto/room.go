package dto

import (
	"time"

	domainreviews "hotelbooking/internal/domain/reviews"
	domainrooms "hotelbooking/internal/domain/rooms"
)

type RoomDTO struct {
	ID           string    `json:"room_id"`
	BranchID     string    `json:"branch_id"`
	Name         string    `json:"name"`
	Type         string    `json:"room_type"`
	Capacity     int       `json:"capacity"`
	Price        MoneyDTO  `json:"price"`
	Availability string    `json:"availability"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func MapRoom(r *domainrooms.Room) RoomDTO {
	return RoomDTO{
		ID:           string(r.ID),
		BranchID:     r.BranchID,
		Name:         r.Name,
		Type:         r.Type,
		Capacity:     r.Capacity,
		Price:        MapMoney(r.Price),
		Availability: string(r.Availability),
		UpdatedAt:    r.UpdatedAt,
	}
}

// WithRating attaches the review summary of the room.
func (d RoomDTO) WithRating(r domainreviews.Rating) RoomDTO {
	d.Rating = r.Average
	d.ReviewCount = r.Count
	return d
}

type RoomCollection struct {
	Items []RoomDTO `json:"items"`
}

type RoomReleaseResult struct {
	RoomID   string `json:"room_id"`
	Notified int    `json:"waitlist_notified"`
}
