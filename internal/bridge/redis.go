// internal/bridge/redis.go
package bridge

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

/*
 * Redis Streams transport.
 *
 * Outbound requests are XADDed to the request stream; inbound events are
 * consumed from the event stream through a consumer group, so a restarted
 * process resumes where it left off. Messages carry the JSON envelope in a
 * single "message" field.
 *
 * Fire-and-forget: there is no correlation between a request and the events
 * it provokes, and no ordering guarantee across streams. An undecodable
 * inbound envelope is logged and acknowledged; evaluation-shape errors are
 * not detected here but by the evaluation cache.
 */

// RedisConfig configures the Redis Streams transport.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	RequestStream string
	EventStream   string
	ConsumerGroup string
	ConsumerName  string
	BlockTime     time.Duration
	Buffer        int
}

// RedisTransport is a Port backed by two Redis streams.
type RedisTransport struct {
	cfg    RedisConfig
	client *redis.Client
	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRedisTransport validates config and fills defaults. The connection is
// established by Start.
func NewRedisTransport(cfg RedisConfig) (*RedisTransport, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.RequestStream == "" || cfg.EventStream == "" {
		return nil, fmt.Errorf("request and event stream names are required")
	}
	if cfg.RequestStream == cfg.EventStream {
		return nil, fmt.Errorf("request and event streams must differ")
	}
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = "tallyboard"
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "tallyboard-core"
	}
	if cfg.BlockTime <= 0 {
		cfg.BlockTime = time.Second
	}
	if cfg.Buffer < 1 {
		cfg.Buffer = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisTransport{
		cfg:    cfg,
		events: make(chan Event, cfg.Buffer),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start connects, ensures the consumer group exists, and begins consuming
// inbound events in the background.
func (t *RedisTransport) Start(ctx context.Context) error {
	t.client = redis.NewClient(&redis.Options{
		Addr:     t.cfg.Addr,
		Password: t.cfg.Password,
		DB:       t.cfg.DB,
	})

	if err := t.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	if err := t.createConsumerGroup(ctx); err != nil {
		return err
	}

	go t.consume()
	return nil
}

// Stop cancels consumption, closes the event stream and the client.
func (t *RedisTransport) Stop(ctx context.Context) error {
	t.cancel()
	if t.client != nil {
		if err := t.client.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	return nil
}

// Send encodes the request envelope and appends it to the request stream.
func (t *RedisTransport) Send(ctx context.Context, req Request) error {
	data, err := EncodeRequest(req)
	if err != nil {
		return err
	}
	err = t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: t.cfg.RequestStream,
		Values: map[string]interface{}{"message": string(data)},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append to request stream: %w", err)
	}
	return nil
}

// Events returns the inbound event stream. Closed after Stop drains.
func (t *RedisTransport) Events() <-chan Event {
	return t.events
}

func (t *RedisTransport) createConsumerGroup(ctx context.Context) error {
	// BUSYGROUP means the group already exists; any other error is fatal.
	err := t.client.XGroupCreateMkStream(ctx, t.cfg.EventStream, t.cfg.ConsumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (t *RedisTransport) consume() {
	defer close(t.events)

	for {
		select {
		case <-t.ctx.Done():
			return
		default:
		}

		result, err := t.client.XReadGroup(t.ctx, &redis.XReadGroupArgs{
			Group:    t.cfg.ConsumerGroup,
			Consumer: t.cfg.ConsumerName,
			Streams:  []string{t.cfg.EventStream, ">"},
			Count:    64,
			Block:    t.cfg.BlockTime,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if t.ctx.Err() != nil {
				return
			}
			log.Printf("failed to read event stream: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range result {
			for _, msg := range stream.Messages {
				event, err := t.decodeMessage(msg)
				if err != nil {
					// Transport-level garbage: log, ack, move on. Shape
					// errors inside evaluation payloads surface later via
					// the evaluation cache.
					log.Printf("dropping undecodable event %s: %v", msg.ID, err)
					t.client.XAck(t.ctx, stream.Stream, t.cfg.ConsumerGroup, msg.ID)
					continue
				}

				select {
				case t.events <- event:
					t.client.XAck(t.ctx, stream.Stream, t.cfg.ConsumerGroup, msg.ID)
				case <-t.ctx.Done():
					return
				}
			}
		}
	}
}

func (t *RedisTransport) decodeMessage(msg redis.XMessage) (Event, error) {
	raw, ok := msg.Values["message"].(string)
	if !ok {
		return nil, fmt.Errorf("message field missing or not a string")
	}
	return DecodeEvent([]byte(raw))
}
