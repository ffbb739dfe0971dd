package middleware

import (
	"context"

	"hotelbooking/internal/app/commands"
	"hotelbooking/internal/app/uow"
)

// TxOptionsProvider picks transaction options per command.
type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction runs each command inside one unit of work and commits it when
// the handler succeeds. A command dispatched while a unit is already in the
// context joins that unit instead of opening its own.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	if optsProvider == nil {
		optsProvider = func(commands.Command) uow.TxOptions { return uow.TxOptions{} }
	}
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if _, joined := uow.FromContext(ctx); joined {
				return next.Dispatch(ctx, cmd)
			}
			unit, txCtx, err := uow.Begin(ctx, factory, optsProvider(cmd))
			if err != nil {
				return nil, err
			}
			var res any
			err = uow.Run(txCtx, unit, func() error {
				var runErr error
				res, runErr = next.Dispatch(txCtx, cmd)
				return runErr
			})
			if err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
