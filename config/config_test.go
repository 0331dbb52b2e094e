package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("symbol: ABC\n"))
	require.NoError(t, err)

	assert.Equal(t, "ABC", cfg.Symbol)
	assert.Equal(t, "matching-engine", cfg.ServiceName)
	assert.Equal(t, defaultQueueSize, cfg.Engine.QueueSize)
	assert.Equal(t, "1", cfg.Price.TickSize)
	assert.Nil(t, cfg.Redis)
	assert.Nil(t, cfg.Kafka)
	assert.Nil(t, cfg.Nats)
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("TEST_SYMBOL", "XYZ")
	t.Setenv("TEST_REDIS_URL", "redis://localhost:6379/1")

	raw := `
symbol: ${TEST_SYMBOL}
engine:
  queue_size: 16
price:
  tick_size: "0.01"
redis:
  connection_url: ${TEST_REDIS_URL}
  snapshot_ttl_seconds: 30
kafka:
  brokers: ["k1:9092", "k2:9092"]
  topic: trades
nats:
  url: nats://localhost:4222
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "XYZ", cfg.Symbol)
	assert.Equal(t, 16, cfg.Engine.QueueSize)
	assert.Equal(t, "0.01", cfg.Price.TickSize)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.ConnectionURL)
	assert.Equal(t, 30, cfg.Redis.SnapshotTTLSeconds)
	require.NotNil(t, cfg.Kafka)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.NotNil(t, cfg.Nats)
	assert.Equal(t, "nats://localhost:4222", cfg.Nats.URL)
}

func TestParseRequiresSymbol(t *testing.T) {
	_, err := Parse([]byte("service_name: x\n"))
	assert.ErrorIs(t, err, errMissingSymbol)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbol: ABC\nlog_level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	t.Setenv("CONFIG_FILE", path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "ABC", cfg.Symbol)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
