package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, lvl)

	lvl, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestEnsureRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "no-request-id", RequestID(ctx))

	ctx = EnsureRequestID(ctx)
	id := RequestID(ctx)
	assert.NotEqual(t, "no-request-id", id)
	assert.Equal(t, id, RequestID(EnsureRequestID(ctx)))

	ctx = WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(EnsureRequestID(ctx)))
}

func TestLoggerAddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	ctx := WithRequestID(context.Background(), "req-1")
	l.Info(ctx, "hello", zap.Int("n", 1))
	l.Error(ctx, "boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["n"])
	assert.Contains(t, entries[1].ContextMap(), "log_line")
}

func TestGetLoggerReusesContextLogger(t *testing.T) {
	l := NewNop()
	ctx := WithLogger(context.Background(), l)

	got, _ := GetLogger(ctx)
	assert.Same(t, l, got)

	_, ctx = GetLogger(context.Background())
	assert.NotEqual(t, "no-request-id", RequestID(ctx))
}
