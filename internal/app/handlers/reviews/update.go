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
	domainreviews "hotelbooking/internal/domain/reviews"
)

const updateKey = "reviews.update"

// UpdateCommand rewrites a review. Only its author may change it.
type UpdateCommand struct {
	Principal auth.Principal
	ReviewID  string
	Rating    int
	Title     string
	Text      string
}

func (c UpdateCommand) Key() string               { return updateKey }
func (c UpdateCommand) Actor() auth.Principal     { return c.Principal }
func (c UpdateCommand) AllowedRoles() []auth.Role { return []auth.Role{auth.RoleGuest} }

func (c UpdateCommand) Validate() error {
	if strings.TrimSpace(c.ReviewID) == "" {
		return handlersupport.Invalid("review_id is required")
	}
	if c.Rating < 1 || c.Rating > 5 {
		return domainreviews.ErrInvalidRating
	}
	return nil
}

type UpdateHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (h *UpdateHandler) Handle(ctx context.Context, cmd UpdateCommand) (dto.ReviewDTO, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewDTO{}, err
	}
	defer unit.Close()

	review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(strings.TrimSpace(cmd.ReviewID)))
	if err != nil {
		return dto.ReviewDTO{}, err
	}
	if err := review.Update(cmd.Principal.UserID, cmd.Rating, cmd.Title, cmd.Text, h.Clock()); err != nil {
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
	return dto.MapReview(review), nil
}

var _ commands.Handler[UpdateCommand, dto.ReviewDTO] = (*UpdateHandler)(nil)
