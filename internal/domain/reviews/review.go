// Package reviews holds guest reviews of rooms. A guest reviews a stay once;
// the room rating is the rounded mean of its reviews.
package reviews

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"hotelbooking/internal/domain/booking"
	"hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/events"
)

// MaxTextLength bounds the review body in runes.
const MaxTextLength = 2000

var (
	ErrInvalidRating   = errors.New("reviews: rating must be between 1 and 5")
	ErrTextTooLong     = errors.New("reviews: text is too long")
	ErrReviewNotFound  = errors.New("reviews: not found")
	ErrNotAuthor       = errors.New("reviews: review belongs to another guest")
	ErrDuplicate       = errors.New("reviews: stay already reviewed")
	ErrStayNotEligible = errors.New("reviews: stay cannot be reviewed yet")
)

type ReviewID string

type Review struct {
	ID        ReviewID
	BookingID booking.BookingID
	RoomID    rooms.RoomID
	BranchID  string
	AuthorID  string
	Author    string
	Rating    int
	Title     string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

// Rating summarizes the reviews of one room.
type Rating struct {
	Average float64
	Count   int
}

// Filter narrows a review scan. Zero values match everything.
type Filter struct {
	RoomID    rooms.RoomID
	AuthorID  string
	BookingID booking.BookingID
}

func (f Filter) Matches(r *Review) bool {
	if f.RoomID != "" && r.RoomID != f.RoomID {
		return false
	}
	if f.AuthorID != "" && r.AuthorID != f.AuthorID {
		return false
	}
	if f.BookingID != "" && r.BookingID != f.BookingID {
		return false
	}
	return true
}

// Repository lists reviews newest first. Save refuses a second review of the
// same booking with ErrDuplicate.
type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	List(ctx context.Context, filter Filter) ([]*Review, error)
	Ratings(ctx context.Context, ids []rooms.RoomID) (map[rooms.RoomID]Rating, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        ReviewID
	Stay      *booking.Booking
	AuthorID  string
	Author    string
	Rating    int
	Title     string
	Text      string
	CreatedAt time.Time
}

// Submit reviews a stay. Only the guest who booked may review it, and only
// once the stay was completed or its check-out day has come.
func Submit(params SubmitParams) (*Review, error) {
	stay := params.Stay
	if stay == nil {
		return nil, booking.ErrBookingNotFound
	}
	if !stay.OwnedBy(params.AuthorID) {
		return nil, ErrNotAuthor
	}
	now := params.CreatedAt.UTC()
	if !Reviewable(stay, now) {
		return nil, ErrStayNotEligible
	}
	title, text, err := cleanText(params.Rating, params.Title, params.Text)
	if err != nil {
		return nil, err
	}
	r := &Review{
		ID:        params.ID,
		BookingID: stay.ID,
		RoomID:    stay.RoomID,
		BranchID:  stay.BranchID,
		AuthorID:  params.AuthorID,
		Author:    strings.TrimSpace(params.Author),
		Rating:    params.Rating,
		Title:     title,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(ReviewSubmitted{ReviewID: r.ID, BookingID: r.BookingID, RoomID: r.RoomID, Rating: r.Rating, At: now})
	return r, nil
}

// Reviewable reports whether the stay has ended for review purposes. Cancelled
// stays are never reviewable.
func Reviewable(b *booking.Booking, now time.Time) bool {
	switch b.Status {
	case booking.StatusCompleted:
		return true
	case booking.StatusConfirmed:
		return !now.Before(b.Range.CheckOut)
	}
	return false
}

func (r *Review) Update(authorID string, rating int, title, text string, now time.Time) error {
	if r.AuthorID != authorID {
		return ErrNotAuthor
	}
	title, text, err := cleanText(rating, title, text)
	if err != nil {
		return err
	}
	r.Rating = rating
	r.Title = title
	r.Text = text
	r.UpdatedAt = now.UTC()
	r.Record(ReviewUpdated{ReviewID: r.ID, RoomID: r.RoomID, Rating: rating, At: r.UpdatedAt})
	return nil
}

func cleanText(rating int, title, text string) (string, string, error) {
	if rating < 1 || rating > 5 {
		return "", "", ErrInvalidRating
	}
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if len([]rune(title))+len([]rune(text)) > MaxTextLength {
		return "", "", ErrTextTooLong
	}
	return title, text, nil
}

// Summarize averages ratings to one decimal place. No reviews rate zero.
func Summarize(ratings []int) Rating {
	if len(ratings) == 0 {
		return Rating{}
	}
	total := 0
	for _, v := range ratings {
		total += v
	}
	return Rating{Average: RoundRating(float64(total) / float64(len(ratings))), Count: len(ratings)}
}

func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
