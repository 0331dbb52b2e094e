package config

import (
	"errors"
	"os"

	nats_wrapper "github.com/joripage/matching-engine/pkg/infra/nats"
	redis_wrapper "github.com/joripage/matching-engine/pkg/infra/redis"
	kafkawrapper "github.com/joripage/matching-engine/pkg/kafka_wrapper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultQueueSize = 1024

var errMissingSymbol = errors.New("config: symbol is required")

type EngineConfig struct {
	QueueSize int    `yaml:"queue_size"`
	StartID   uint64 `yaml:"start_id"`
}

type PriceConfig struct {
	TickSize string `yaml:"tick_size"`
}

type AppConfig struct {
	ServiceName string       `yaml:"service_name"`
	Symbol      string       `yaml:"symbol"`
	LogLevel    string       `yaml:"log_level"`
	Engine      EngineConfig `yaml:"engine"`
	Price       PriceConfig  `yaml:"price"`

	// optional market data publishers, nil disables
	Redis *redis_wrapper.RedisConfig `yaml:"redis"`
	Kafka *kafkawrapper.KafkaConfig  `yaml:"kafka"`
	Nats  *nats_wrapper.NatsConfig   `yaml:"nats"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}

	cfg, err := Parse(configBytes)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}

// Parse expands environment variables in raw, decodes it and applies defaults.
func Parse(raw []byte) (*AppConfig, error) {
	raw = []byte(os.ExpandEnv(string(raw)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Symbol == "" {
		return errMissingSymbol
	}
	if c.ServiceName == "" {
		c.ServiceName = "matching-engine"
	}
	if c.Engine.QueueSize <= 0 {
		c.Engine.QueueSize = defaultQueueSize
	}
	if c.Price.TickSize == "" {
		c.Price.TickSize = "1"
	}
	return nil
}
