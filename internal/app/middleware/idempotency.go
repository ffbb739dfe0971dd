package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/app/auth"
	"hotelbooking/internal/app/commands"
)

// IdempotentCommand is implemented by commands a client may safely retry with
// an Idempotency-Key header, such as booking creation.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	// ResultPrototype returns a fresh pointer of the handler's result type;
	// the replayed payload is decoded into it and returned as is.
	ResultPrototype() any
}

type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	Error      string
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONResultCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

var errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")

// Idempotency replays the stored result of an earlier successful command with
// the same key. Keys are scoped to the command and its actor, so two guests
// sending the same header value never see each other's booking. Failed
// commands are not stored and may be retried with the same key.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	replayer := idempotency{store: store, codec: codec, now: time.Now}
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || strings.TrimSpace(idCmd.IdempotencyKey()) == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := ScopedIdempotencyKey(idCmd)
			if res, found, err := replayer.replay(ctx, key, idCmd); found || err != nil {
				return res, err
			}
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := replayer.remember(ctx, key, res); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}

// ScopedIdempotencyKey is the store key for cmd: command key, actor and the
// client supplied key.
func ScopedIdempotencyKey(cmd IdempotentCommand) string {
	actor := "anonymous"
	if g, ok := cmd.(auth.Guarded); ok && g.Actor().Authenticated() {
		actor = g.Actor().UserID
	}
	return cmd.Key() + ":" + actor + ":" + strings.TrimSpace(cmd.IdempotencyKey())
}

type idempotency struct {
	store IdempotencyStore
	codec ResultCodec
	now   func() time.Time
}

func (i idempotency) replay(ctx context.Context, key string, cmd IdempotentCommand) (any, bool, error) {
	rec, found, err := i.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("middleware: load idempotency record: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	if rec.Error != "" {
		return nil, true, errors.New(rec.Error)
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, true, errMissingPrototype
	}
	if err := i.codec.Decode(rec.Payload, proto); err != nil {
		return nil, true, fmt.Errorf("middleware: decode replayed %s: %w", cmd.Key(), err)
	}
	return proto, true, nil
}

func (i idempotency) remember(ctx context.Context, key string, res any) error {
	rec := IdempotencyRecord{Key: key, OccurredAt: i.now().UTC()}
	if res != nil {
		payload, err := i.codec.Encode(res)
		if err != nil {
			return err
		}
		rec.Payload = payload
	}
	return i.store.Save(ctx, rec)
}
