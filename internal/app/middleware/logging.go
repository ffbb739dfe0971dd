package middleware

import (
	"context"
	"log/slog"
	"time"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/queries"
)

// Logging records every command with its duration and, for guarded commands,
// the acting user. Failures are logged at warn.
func Logging(logger *slog.Logger) CommandMiddleware {
	logger = orDefault(logger)
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logOutcome(ctx, logger, "command", cmd.Key(), cmd, time.Since(start), err)
			return res, err
		})
	}
}

// QueryLogging only reports failed queries; reads are too frequent to log.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	logger = orDefault(logger)
	return func(next queries.Bus) queries.Bus {
		return QueryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			if err != nil {
				logOutcome(ctx, logger, "query", q.Key(), q, time.Since(start), err)
			}
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, kind, key string, message any, elapsed time.Duration, err error) {
	attrs := []slog.Attr{slog.String(kind, key), slog.Duration("duration", elapsed)}
	if g, ok := message.(auth.Guarded); ok {
		if actor := g.Actor(); actor.Authenticated() {
			attrs = append(attrs, slog.String("user_id", actor.UserID), slog.String("role", string(actor.Role)))
		}
	}
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, kind+" failed", append(attrs, slog.Any("error", err))...)
		return
	}
	logger.LogAttrs(ctx, slog.LevelDebug, kind+" handled", attrs...)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
