package dto

import (
	"time"

	domainreviews "hotelbooking/internal/domain/reviews"
)

type ReviewDTO struct {
	ID        string    `json:"review_id"`
	BookingID string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	BranchID  string    `json:"branch_id"`
	AuthorID  string    `json:"user_id"`
	Author    string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapReview(r *domainreviews.Review) ReviewDTO {
	return ReviewDTO{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		RoomID:    string(r.RoomID),
		BranchID:  r.BranchID,
		AuthorID:  r.AuthorID,
		Author:    r.Author,
		Rating:    r.Rating,
		Title:     r.Title,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type RatingDTO struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type ReviewCollection struct {
	Items  []ReviewDTO `json:"items"`
	Rating RatingDTO   `json:"rating"`
}
