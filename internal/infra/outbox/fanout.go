package outbox

import (
	"context"
	"errors"
)

// Fanout publishes to every producer and joins their errors.
type Fanout []Producer

func (f Fanout) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, topic, key, payload, headers); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Producer = Fanout(nil)
