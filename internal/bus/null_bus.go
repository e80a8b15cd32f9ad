package bus

import (
	"context"

	"go.uber.org/zap"
)

// NullBus is a no-op implementation of the bus interface for when Redis is disabled
type NullBus struct {
	logger *zap.SugaredLogger
}

// NewNullBus creates a new null bus instance
func NewNullBus(logger *zap.SugaredLogger) *NullBus {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &NullBus{logger: logger}
}

// Close is a no-op for null bus
func (nb *NullBus) Close() error {
	return nil
}

// PublishChange logs the change but doesn't publish it
func (nb *NullBus) PublishChange(ctx context.Context, msg ChangeMessage) error {
	nb.logger.Debugw("change not published (redis disabled)", "entity", msg.Entity, "action", msg.Action, "record", msg.RecordID)
	return nil
}

// SubscribeChanges blocks until ctx is cancelled; there is nothing to deliver
func (nb *NullBus) SubscribeChanges(ctx context.Context, handler func(ctx context.Context, msg ChangeMessage) error) error {
	<-ctx.Done()
	return ctx.Err()
}

// GetStats returns empty stats for null bus
func (nb *NullBus) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{
		"type":   "null",
		"status": "disabled",
	}, nil
}

// HealthCheck always returns nil for null bus
func (nb *NullBus) HealthCheck(ctx context.Context) error {
	return nil
}
