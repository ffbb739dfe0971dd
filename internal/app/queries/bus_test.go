package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomCount struct{ Branch string }

func (roomCount) Key() string { return "rooms.count" }

type countHandler map[string]int

func (h countHandler) Handle(_ context.Context, q roomCount) (int, error) {
	return h[q.Branch], nil
}

func TestAskRoutesByKey(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[roomCount, int](bus, roomCount{}.Key(), countHandler{"blr": 3})

	got, err := Ask[roomCount, int](context.Background(), bus, roomCount{Branch: "blr"})
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, []string{"rooms.count"}, bus.Keys())

	_, err = Ask[roomCount, string](context.Background(), bus, roomCount{Branch: "blr"})
	assert.ErrorIs(t, err, ErrResultType)
	assert.Panics(t, func() { RegisterHandler[roomCount, int](bus, roomCount{}.Key(), countHandler{}) })
}

func TestAskUnknownQuery(t *testing.T) {
	_, err := Ask[roomCount, int](context.Background(), NewInMemoryBus(), roomCount{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
	_, err = Ask[roomCount, int](context.Background(), nil, roomCount{})
	assert.ErrorIs(t, err, ErrNilBus)
}
