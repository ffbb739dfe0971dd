package pricing

import (
	"context"
	"strings"

	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainpricing "hotelbooking/internal/domain/pricing"
	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/domain/shared/daterange"
	"hotelbooking/internal/domain/shared/money"
)

const quoteKey = "pricing.quote"

// QuoteQuery prices a stay for a stored room, or for an explicit base rate
// (in paise) and branch.
type QuoteQuery struct {
	RoomID   string
	BranchID string
	BaseRate int64
	CheckIn  string
	CheckOut string
}

func (q QuoteQuery) Key() string { return quoteKey }

func (q QuoteQuery) Validate() error {
	if strings.TrimSpace(q.RoomID) == "" && q.BaseRate <= 0 {
		return handlersupport.Invalid("room_id or base_rate is required")
	}
	if q.BaseRate < 0 {
		return handlersupport.Invalid("base_rate cannot be negative")
	}
	if _, err := daterange.ParseDay(q.CheckIn); err != nil {
		return handlersupport.Invalid("check_in: %v", err)
	}
	if _, err := daterange.ParseDay(q.CheckOut); err != nil {
		return handlersupport.Invalid("check_out: %v", err)
	}
	return nil
}

type QuoteHandler struct {
	UoWFactory uow.UoWFactory
	Calculator domainpricing.Calculator
	handlersupport.Deps
}

// Handle never fails on pricing itself; an inverted range returns the base rate.
func (h *QuoteHandler) Handle(ctx context.Context, q QuoteQuery) (dto.QuoteDTO, error) {
	in, err := daterange.ParseDay(q.CheckIn)
	if err != nil {
		return dto.QuoteDTO{}, handlersupport.Invalid("check_in: %v", err)
	}
	out, err := daterange.ParseDay(q.CheckOut)
	if err != nil {
		return dto.QuoteDTO{}, handlersupport.Invalid("check_out: %v", err)
	}

	input := domainpricing.Input{
		BaseRate: money.Money{Amount: q.BaseRate, Currency: money.DefaultCurrency},
		CheckIn:  in,
		CheckOut: out,
		RoomID:   q.RoomID,
		BranchID: q.BranchID,
	}
	if roomID := strings.TrimSpace(q.RoomID); roomID != "" {
		unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
		if err != nil {
			return dto.QuoteDTO{}, err
		}
		if cleanup != nil {
			defer cleanup()
		}
		room, err := unit.Rooms().ByID(execCtx, domainrooms.RoomID(roomID))
		if err != nil {
			return dto.QuoteDTO{}, err
		}
		input.BaseRate = room.Price
		input.BranchID = room.BranchID
		ctx = execCtx
	}
	quote := h.Calculator.Quote(ctx, input)
	return dto.MapQuote(quote, input.RoomID, input.BranchID), nil
}

var _ queries.Handler[QuoteQuery, dto.QuoteDTO] = (*QuoteHandler)(nil)
