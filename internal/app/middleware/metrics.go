package middleware

import (
	"context"
	"time"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/queries"
)

// Observer records the outcome of a dispatched message. kind is "command" or
// "query"; key is the message key, e.g. booking.create.
type Observer interface {
	Observe(kind, key string, elapsed time.Duration, err error)
}

func Metrics(o Observer) CommandMiddleware {
	requireObserver(o)
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (res any, err error) {
			defer timed(o, "command", cmd.Key())(&err)
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryMetrics(o Observer) QueryMiddleware {
	requireObserver(o)
	return func(next queries.Bus) queries.Bus {
		return QueryFunc(func(ctx context.Context, q queries.Query) (res any, err error) {
			defer timed(o, "query", q.Key())(&err)
			return next.Ask(ctx, q)
		})
	}
}

// timed starts a clock and returns the func that reports it.
func timed(o Observer, kind, key string) func(*error) {
	start := time.Now()
	return func(err *error) {
		o.Observe(kind, key, time.Since(start), *err)
	}
}

func requireObserver(o Observer) {
	if o == nil {
		panic("middleware: observer required")
	}
}
