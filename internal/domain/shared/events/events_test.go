package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stub string

func (s stub) EventName() string     { return string(s) }
func (s stub) AggregateID() string   { return "agg" }
func (s stub) OccurredAt() time.Time { return time.Time{} }

func TestRecorder(t *testing.T) {
	var r EventRecorder
	r.Record(stub("a"), nil)
	r.Record(stub("b"))

	pending := r.Pending()
	assert.Len(t, pending, 2)
	pending[0] = stub("z")
	assert.Equal(t, "a", r.Pending()[0].EventName())

	drained := r.Drain()
	assert.Equal(t, []DomainEvent{stub("a"), stub("b")}, drained)
	assert.Empty(t, r.Drain())

	r.Record(stub("c"))
	r.Clear()
	assert.Empty(t, r.Pending())
}
