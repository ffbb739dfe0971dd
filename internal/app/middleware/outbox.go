package middleware

import (
	"context"
	"fmt"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/outbox"
)

// OutboxFlush hands buffered booking and waitlist events to the outbox once
// the command succeeded. A failed command leaves the buffer untouched; its
// unit of work rolls the rows back.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, fmt.Errorf("middleware: flush outbox after %s: %w", cmd.Key(), err)
			}
			return res, nil
		})
	}
}
