// Package reviews handles guest reviews of completed stays.
package reviews

import (
	"context"
	"strings"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/uow"
	domainbooking "hotelbooking/internal/domain/booking"
	domainreviews "hotelbooking/internal/domain/reviews"
)

const submitKey = "reviews.submit"

type SubmitCommand struct {
	Principal auth.Principal
	BookingID string
	Rating    int
	Title     string
	Text      string
}

func (c SubmitCommand) Key() string               { return submitKey }
func (c SubmitCommand) Actor() auth.Principal     { return c.Principal }
func (c SubmitCommand) AllowedRoles() []auth.Role { return []auth.Role{auth.RoleGuest} }

func (c SubmitCommand) Validate() error {
	if strings.TrimSpace(c.BookingID) == "" {
		return handlersupport.Invalid("booking_id is required")
	}
	if c.Rating < 1 || c.Rating > 5 {
		return domainreviews.ErrInvalidRating
	}
	return nil
}

type SubmitHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (h *SubmitHandler) Handle(ctx context.Context, cmd SubmitCommand) (dto.ReviewDTO, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewDTO{}, err
	}
	defer unit.Close()

	stay, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(cmd.BookingID)))
	if err != nil {
		return dto.ReviewDTO{}, err
	}
	existing, err := unit.Reviews().List(ctx, domainreviews.Filter{BookingID: stay.ID})
	if err != nil {
		return dto.ReviewDTO{}, err
	}
	if len(existing) > 0 {
		return dto.ReviewDTO{}, domainreviews.ErrDuplicate
	}
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(h.ID()),
		Stay:      stay,
		AuthorID:  cmd.Principal.UserID,
		Author:    cmd.Principal.Name,
		Rating:    cmd.Rating,
		Title:     cmd.Title,
		Text:      cmd.Text,
		CreatedAt: h.Clock(),
	})
	if err != nil {
		return dto.ReviewDTO{}, err
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return dto.ReviewDTO{}, err
	}
	if err := outbox.RecordPending(ctx, h.Outbox, h.Encoder, review); err != nil {
		return dto.ReviewDTO{}, err
	}
	if err := unit.Commit(ctx); err != nil {
		return dto.ReviewDTO{}, err
	}
	h.Log().Info("review submitted", "review_id", review.ID, "room_id", review.RoomID, "rating", review.Rating)
	return dto.MapReview(review), nil
}

var _ commands.Handler[SubmitCommand, dto.ReviewDTO] = (*SubmitHandler)(nil)
