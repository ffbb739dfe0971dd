package uow

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextInjector is implemented by units that keep driver state in the
// context, such as the Mongo session the repositories read back.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}

func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok && unit != nil
}

// Begin opens a unit and returns a context carrying it.
func Begin(ctx context.Context, factory UoWFactory, opts TxOptions) (UnitOfWork, context.Context, error) {
	if factory == nil {
		return nil, ctx, ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, fmt.Errorf("uow: begin: %w", err)
	}
	if injector, ok := unit.(ContextInjector); ok {
		ctx = injector.InjectContext(ctx)
	}
	return unit, ContextWithUnitOfWork(ctx, unit), nil
}

// Run calls fn and commits unit when fn succeeds. The unit is rolled back on
// error, on a failed commit and on panic.
func Run(ctx context.Context, unit UnitOfWork, fn func() error) (err error) {
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()
	if err = fn(); err != nil {
		return err
	}
	if err = unit.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}
