package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Envelope is the pub/sub message shape: one named event and its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a pub/sub message body.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("realtime: decode envelope: %w", err)
	}
	env.Event = strings.TrimSpace(env.Event)
	if env.Event == "" {
		return env, errMissingEvName
	}
	if len(env.Data) == 0 {
		env.Data = json.RawMessage("null")
	}
	return env, nil
}

// RedisFeed delivers events published on a Redis pub/sub channel, for stations
// whose relay fans events out through Redis instead of Socket.IO.
type RedisFeed struct {
	*Dispatcher

	client  *redis.Client
	channel string
	logger  *zap.Logger

	closed    chan struct{}
	closeOnce sync.Once
}

// NewRedisFeed returns a feed reading from channel.
func NewRedisFeed(client *redis.Client, channel string, logger *zap.Logger) (*RedisFeed, error) {
	if client == nil {
		return nil, errors.New("realtime: redis client is nil")
	}
	if strings.TrimSpace(channel) == "" {
		return nil, errors.New("realtime: redis channel is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisFeed{
		Dispatcher: NewDispatcher(logger),
		client:     client,
		channel:    channel,
		logger:     logger,
		closed:     make(chan struct{}),
	}, nil
}

// Run subscribes and dispatches until ctx ends or Close is called.
func (f *RedisFeed) Run(ctx context.Context) error {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("realtime: subscribe %s: %w", f.channel, err)
	}
	f.logger.Info("redis feed subscribed", zap.String("channel", f.channel))
	f.Dispatch(ctx, EventConnect, nil)
	defer f.Dispatch(ctx, EventDisconnect, nil)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.closed:
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("realtime: redis subscription closed")
			}
			env, err := DecodeEnvelope([]byte(msg.Payload))
			if err != nil {
				f.logger.Warn("dropping malformed pub/sub message", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			f.Dispatch(ctx, env.Event, env.Data)
		}
	}
}

// Close stops Run.
func (f *RedisFeed) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}
