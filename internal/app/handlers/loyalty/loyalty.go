package loyalty

import (
	"context"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/dto"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/queries"
	"hotelbooking/internal/app/uow"
	domainloyalty "hotelbooking/internal/domain/loyalty"
)

const (
	getAccountKey = "loyalty.get"
	redeemKey     = "loyalty.redeem"
)

type GetAccountQuery struct {
	Principal auth.Principal
}

func (q GetAccountQuery) Key() string               { return getAccountKey }
func (q GetAccountQuery) Actor() auth.Principal     { return q.Principal }
func (q GetAccountQuery) AllowedRoles() []auth.Role { return nil }

type GetAccountHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

// Handle returns the caller's account. A missing account reads as zero points.
func (h *GetAccountHandler) Handle(ctx context.Context, q GetAccountQuery) (dto.LoyaltyAccountDTO, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.LoyaltyAccountDTO{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	account, err := unit.Loyalty().ByUser(ctx, q.Principal.UserID)
	if err != nil {
		h.Log().Warn("loyalty lookup failed", "user_id", q.Principal.UserID, "error", err)
		account = nil
	}
	return dto.MapLoyalty(q.Principal.UserID, account), nil
}

type RedeemCommand struct {
	Principal auth.Principal
	Points    int64
}

func (c RedeemCommand) Key() string               { return redeemKey }
func (c RedeemCommand) Actor() auth.Principal     { return c.Principal }
func (c RedeemCommand) AllowedRoles() []auth.Role { return nil }

func (c RedeemCommand) Validate() error {
	if c.Points <= 0 {
		return domainloyalty.ErrInvalidPoints
	}
	return nil
}

type RedeemHandler struct {
	UoWFactory uow.UoWFactory
	handlersupport.Deps
}

func (h *RedeemHandler) Handle(ctx context.Context, cmd RedeemCommand) (dto.LoyaltyAccountDTO, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.LoyaltyAccountDTO{}, err
	}
	defer unit.Close()

	userID := cmd.Principal.UserID
	account, err := unit.Loyalty().ByUser(ctx, userID)
	if err != nil {
		return dto.LoyaltyAccountDTO{}, err
	}
	if account == nil {
		return dto.LoyaltyAccountDTO{}, domainloyalty.ErrInsufficientPoints
	}
	if err := account.Redeem(cmd.Points, h.Clock()); err != nil {
		return dto.LoyaltyAccountDTO{}, err
	}
	if err := unit.Loyalty().Save(ctx, account); err != nil {
		return dto.LoyaltyAccountDTO{}, err
	}
	if err := unit.Commit(ctx); err != nil {
		return dto.LoyaltyAccountDTO{}, err
	}
	return dto.MapLoyalty(userID, account), nil
}

var (
	_ queries.Handler[GetAccountQuery, dto.LoyaltyAccountDTO] = (*GetAccountHandler)(nil)
	_ commands.Handler[RedeemCommand, dto.LoyaltyAccountDTO]  = (*RedeemHandler)(nil)
)
