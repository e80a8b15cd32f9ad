package bus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangesStream is the Redis stream shared by all consoles.
const ChangesStream = "docket:changes"

const maxStreamLen = 1000

// ChangeMessage describes a mutation one console made on the backend.
type ChangeMessage struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"` // "case", "note", "court", "company", ...
	Action    string `json:"action"`
	RecordID  string `json:"record_id"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}

// RedisBus provides the change feed on Redis Streams.
type RedisBus struct {
	client *redis.Client
	origin string
	logger *zap.SugaredLogger
}

// NewRedisBus creates a new Redis bus instance. origin identifies this
// console; its own messages are not delivered back to it.
func NewRedisBus(redisURL, origin string, logger *zap.SugaredLogger) (*RedisBus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if origin == "" {
		origin = uuid.New().String()
	}

	return &RedisBus{client: client, origin: origin, logger: logger}, nil
}

// Origin returns the identifier stamped on published messages.
func (rb *RedisBus) Origin() string {
	return rb.origin
}

// Close closes the Redis connection
func (rb *RedisBus) Close() error {
	return rb.client.Close()
}

// PublishChange appends msg to the changes stream, trimming it approximately
// to the last maxStreamLen entries.
func (rb *RedisBus) PublishChange(ctx context.Context, msg ChangeMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Origin == "" {
		msg.Origin = rb.origin
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	result := rb.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ChangesStream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: encodeChange(msg),
	})
	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}

	rb.logger.Debugw("published change", "entity", msg.Entity, "action", msg.Action, "record", msg.RecordID)
	return nil
}

// SubscribeChanges reads new entries from the stream (starting at "$") and
// hands every change from another origin to handler. Handler errors are
// logged and do not stop the subscription.
func (rb *RedisBus) SubscribeChanges(ctx context.Context, handler func(ctx context.Context, msg ChangeMessage) error) error {
	lastID := "$"
	rb.logger.Infow("subscribed to change feed", "stream", ChangesStream, "origin", rb.origin)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result := rb.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{ChangesStream, lastID},
			Count:   10,
			Block:   time.Second,
		})
		if err := result.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			rb.logger.Warnw("error reading change feed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, stream := range result.Val() {
			for _, message := range stream.Messages {
				lastID = message.ID
				msg := decodeChange(message.Values)
				if msg.Origin == rb.origin {
					continue
				}
				if err := handler(ctx, msg); err != nil {
					rb.logger.Warnw("error handling change", "id", msg.ID, "error", err)
				}
			}
		}
	}
}

// HealthCheck performs a health check on the Redis connection
func (rb *RedisBus) HealthCheck(ctx context.Context) error {
	return rb.client.Ping(ctx).Err()
}

// GetStats returns basic statistics about the changes stream
func (rb *RedisBus) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{
		"type":   "redis",
		"origin": rb.origin,
	}
	info, err := rb.client.XInfoStream(ctx, ChangesStream).Result()
	if err != nil {
		// the stream does not exist until the first publish
		stats["changes_stream"] = map[string]interface{}{"length": int64(0)}
		return stats, nil
	}
	stats["changes_stream"] = map[string]interface{}{
		"length":         info.Length,
		"first_entry_id": info.FirstEntry.ID,
		"last_entry_id":  info.LastEntry.ID,
	}
	return stats, nil
}

func encodeChange(msg ChangeMessage) map[string]interface{} {
	return map[string]interface{}{
		"id":        msg.ID,
		"entity":    msg.Entity,
		"action":    msg.Action,
		"record_id": msg.RecordID,
		"origin":    msg.Origin,
		"timestamp": msg.Timestamp,
	}
}

func decodeChange(values map[string]interface{}) ChangeMessage {
	field := func(k string) string {
		if s, ok := values[k].(string); ok {
			return s
		}
		return ""
	}
	msg := ChangeMessage{
		ID:       field("id"),
		Entity:   field("entity"),
		Action:   field("action"),
		RecordID: field("record_id"),
		Origin:   field("origin"),
	}
	if ts, err := parseTimestamp(field("timestamp")); err == nil {
		msg.Timestamp = ts
	}
	return msg
}

// parseTimestamp parses a timestamp string to unix seconds
func parseTimestamp(timestamp string) (int64, error) {
	if timestamp == "" {
		return time.Now().Unix(), nil
	}

	if n, err := strconv.ParseInt(timestamp, 10, 64); err == nil {
		// 13+ digits: milliseconds
		if n > 1_000_000_000_000 {
			return n / 1000, nil
		}
		return n, nil
	}

	if ts, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
		return ts.Unix(), nil
	}

	return time.Now().Unix(), fmt.Errorf("unable to parse timestamp: %s", timestamp)
}
