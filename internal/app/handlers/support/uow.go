package support

import (
	"context"

	"hotelbooking/internal/app/uow"
)

// BeginReadOnlyUnit joins the unit in ctx or opens a read-only one. The
// returned release func is nil when the unit was joined.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, nil, nil
	}
	unit, readCtx, err := uow.Begin(ctx, factory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	return unit, readCtx, func() { _ = unit.Rollback(readCtx) }, nil
}

// WriteUnit is the unit a command handler writes through. Handlers dispatched
// by the Transaction middleware join its unit, and Commit and Close then leave
// the outcome to the middleware. Handlers called directly own their unit.
type WriteUnit struct {
	uow.UnitOfWork
	ctx   context.Context
	owned bool
	done  bool
}

func BeginWriteUnit(ctx context.Context, factory uow.UoWFactory) (*WriteUnit, context.Context, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return &WriteUnit{UnitOfWork: unit, ctx: ctx}, ctx, nil
	}
	unit, writeCtx, err := uow.Begin(ctx, factory, uow.TxOptions{})
	if err != nil {
		return nil, ctx, err
	}
	return &WriteUnit{UnitOfWork: unit, ctx: writeCtx, owned: true}, writeCtx, nil
}

func (w *WriteUnit) Commit(ctx context.Context) error {
	if !w.owned {
		return nil
	}
	if err := w.UnitOfWork.Commit(ctx); err != nil {
		return err
	}
	w.done = true
	return nil
}

// Close rolls back an owned unit that was not committed. Safe to defer.
func (w *WriteUnit) Close() {
	if w.owned && !w.done {
		_ = w.UnitOfWork.Rollback(w.ctx)
	}
}
