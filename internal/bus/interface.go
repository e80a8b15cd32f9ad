package bus

import (
	"context"

	"go.uber.org/zap"
)

// Bus carries change notifications between consoles that share a Redis.
type Bus interface {
	// PublishChange announces a successful mutation made by this console
	PublishChange(ctx context.Context, msg ChangeMessage) error

	// SubscribeChanges delivers changes made by other consoles until ctx is done
	SubscribeChanges(ctx context.Context, handler func(ctx context.Context, msg ChangeMessage) error) error

	// GetStats returns basic statistics about the bus
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// HealthCheck performs a health check on the bus connection
	HealthCheck(ctx context.Context) error

	// Close closes the bus connection
	Close() error
}

// NewBus creates a new bus instance based on the Redis URL
// If redisURL is empty or unreachable, returns a NullBus
func NewBus(redisURL, origin string, logger *zap.SugaredLogger) Bus {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if redisURL == "" {
		return NewNullBus(logger)
	}

	redisBus, err := NewRedisBus(redisURL, origin, logger)
	if err == nil {
		return redisBus
	}
	logger.Warnw("change feed disabled, redis unavailable", "error", err)
	return NewNullBus(logger)
}
