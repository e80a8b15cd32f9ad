package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusWithoutRedis(t *testing.T) {
	b := NewBus("", "console-a", nil)
	_, ok := b.(*NullBus)
	require.True(t, ok)

	// unparsable URL also falls back
	b = NewBus("not a url", "console-a", nil)
	_, ok = b.(*NullBus)
	require.True(t, ok)
}

func TestNullBus(t *testing.T) {
	nb := NewNullBus(nil)
	ctx := context.Background()

	require.NoError(t, nb.PublishChange(ctx, ChangeMessage{Entity: "case", Action: "delete", RecordID: "1"}))
	require.NoError(t, nb.HealthCheck(ctx))

	stats, err := nb.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "null", stats["type"])

	sub, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	called := false
	err = nb.SubscribeChanges(sub, func(context.Context, ChangeMessage) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
	require.NoError(t, nb.Close())
}

func TestChangeEncoding(t *testing.T) {
	msg := ChangeMessage{ID: "m1", Entity: "court", Action: "rename", RecordID: "c9", Origin: "o1", Timestamp: 1714557600}
	values := encodeChange(msg)

	// go-redis hands stream values back as strings
	wire := map[string]interface{}{}
	for k, v := range values {
		switch x := v.(type) {
		case string:
			wire[k] = x
		case int64:
			wire[k] = "1714557600"
		}
	}
	assert.Equal(t, msg, decodeChange(wire))
}

func TestParseTimestamp(t *testing.T) {
	ts, err := parseTimestamp("1714557600000")
	require.NoError(t, err)
	assert.Equal(t, int64(1714557600), ts)

	ts, err = parseTimestamp("2024-05-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1714557600), ts)

	_, err = parseTimestamp("yesterday")
	assert.Error(t, err)
}
