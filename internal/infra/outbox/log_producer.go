package outbox

import (
	"context"
	"log/slog"
)

// LogProducer writes relayed events to the log. Used when no broker is configured.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "event published", "topic", topic, "key", key, "type", headers["ce-type"], "bytes", len(payload))
	return nil
}

var _ Producer = LogProducer{}
