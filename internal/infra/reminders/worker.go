package reminders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hotelbooking/internal/app/commands"
	notificationsapp "hotelbooking/internal/app/handlers/notifications"
)

var ErrWorkerNotConfigured = errors.New("reminders: worker missing command bus")

// Worker periodically dispatches scheduled notifications that have come due.
type Worker struct {
	Bus      commands.Bus
	Interval time.Duration
	Batch    int
	Logger   *slog.Logger
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Bus == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Tick(ctx); err != nil && ctx.Err() == nil {
				w.logger().Warn("reminder dispatch failed", "error", err)
			}
		}
	}
}

// Tick runs one dispatch pass.
func (w *Worker) Tick(ctx context.Context) (notificationsapp.DispatchDueResult, error) {
	res, err := commands.Dispatch[notificationsapp.DispatchDueCommand, notificationsapp.DispatchDueResult](
		ctx, w.Bus, notificationsapp.DispatchDueCommand{Limit: w.Batch},
	)
	if err != nil {
		return res, err
	}
	if res.Sent > 0 || res.Failed > 0 {
		w.logger().Info("reminders dispatched", "sent", res.Sent, "failed", res.Failed)
	}
	return res, nil
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return time.Minute
	}
	return w.Interval
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
