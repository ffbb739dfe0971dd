package notifications

import (
	"context"

	"hotelbooking/internal/app/commands"
	handlersupport "hotelbooking/internal/app/handlers/support"
	"hotelbooking/internal/app/outbox"
	"hotelbooking/internal/app/uow"
	domainnotifications "hotelbooking/internal/domain/notifications"
)

const dispatchDueKey = "notifications.dispatch_due"

// DefaultDispatchBatch bounds one dispatch pass.
const DefaultDispatchBatch = 100

type DispatchDueCommand struct {
	Limit int
}

func (c DispatchDueCommand) Key() string { return dispatchDueKey }

type DispatchDueResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// DispatchDueHandler delivers pending notifications whose scheduled time has passed.
type DispatchDueHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	handlersupport.Deps
}

func (h *DispatchDueHandler) Handle(ctx context.Context, cmd DispatchDueCommand) (DispatchDueResult, error) {
	unit, ctx, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return DispatchDueResult{}, err
	}
	defer unit.Close()

	limit := cmd.Limit
	if limit <= 0 {
		limit = DefaultDispatchBatch
	}
	now := h.Clock()
	due, err := unit.Notifications().List(ctx, domainnotifications.Filter{DueBy: now, Limit: limit})
	if err != nil {
		return DispatchDueResult{}, err
	}

	var res DispatchDueResult
	for _, n := range due {
		if err := Deliver(ctx, h.Outbox, h.Encoder, n, now); err != nil {
			h.Log().Warn("notification dispatch failed", "notification_id", n.ID, "booking_id", n.BookingID, "error", err)
			n.MarkFailed(err)
			res.Failed++
		} else {
			res.Sent++
		}
		if err := unit.Notifications().Save(ctx, n); err != nil {
			return res, err
		}
	}
	if err := unit.Commit(ctx); err != nil {
		return res, err
	}
	return res, nil
}

var _ commands.Handler[DispatchDueCommand, DispatchDueResult] = (*DispatchDueHandler)(nil)
