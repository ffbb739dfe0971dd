package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionKey struct{}

type stubUnit struct {
	UnitOfWork
	committed  bool
	rolledBack bool
}

func (u *stubUnit) Commit(context.Context) error {
	u.committed = true
	return nil
}

func (u *stubUnit) Rollback(context.Context) error {
	u.rolledBack = true
	return nil
}

func (u *stubUnit) InjectContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, "session-1")
}

type stubFactory struct {
	unit *stubUnit
	opts TxOptions
	err  error
}

func (f *stubFactory) Begin(_ context.Context, opts TxOptions) (UnitOfWork, error) {
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.unit, nil
}

func TestBeginCarriesUnitAndSession(t *testing.T) {
	factory := &stubFactory{unit: &stubUnit{}}
	unit, ctx, err := Begin(context.Background(), factory, TxOptions{ReadOnly: true})
	require.NoError(t, err)

	fromCtx, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, unit, fromCtx)
	assert.Equal(t, "session-1", ctx.Value(sessionKey{}))
	assert.True(t, factory.opts.ReadOnly)
}

func TestBeginErrors(t *testing.T) {
	_, _, err := Begin(context.Background(), nil, TxOptions{})
	assert.ErrorIs(t, err, ErrUnitOfWorkMissing)

	down := errors.New("no primary")
	_, ctx, err := Begin(context.Background(), &stubFactory{err: down}, TxOptions{})
	assert.ErrorIs(t, err, down)
	_, ok := FromContext(ctx)
	assert.False(t, ok)
}

func TestRunCommitsOrRollsBack(t *testing.T) {
	ok := &stubUnit{}
	require.NoError(t, Run(context.Background(), ok, func() error { return nil }))
	assert.True(t, ok.committed)
	assert.False(t, ok.rolledBack)

	failed := &stubUnit{}
	boom := errors.New("room taken")
	assert.ErrorIs(t, Run(context.Background(), failed, func() error { return boom }), boom)
	assert.False(t, failed.committed)
	assert.True(t, failed.rolledBack)

	panicked := &stubUnit{}
	assert.Panics(t, func() {
		_ = Run(context.Background(), panicked, func() error { panic("handler bug") })
	})
	assert.True(t, panicked.rolledBack)
}
