package kafka

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSendsKeyAndHeaders(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "booking.events.v1", msg.Topic)
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "b-1", string(key))
		require.Len(t, msg.Headers, 1)
		assert.Equal(t, "ce-type", string(msg.Headers[0].Key))
		return nil
	})

	p := NewProducerWith(mock)
	err := p.Publish(context.Background(), "booking.events.v1", "b-1", []byte(`{}`), map[string]string{"ce-type": "booking.confirmed.v1"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProducerWith(mocks.NewSyncProducer(t, nil))
	assert.ErrorIs(t, p.Publish(ctx, "t", "k", nil, nil), context.Canceled)
}
