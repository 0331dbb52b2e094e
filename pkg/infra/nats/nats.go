package nats_wrapper

import (
	"time"

	"github.com/cenkalti/backoff"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type NatsConfig struct {
	URL             string `yaml:"url"`
	Name            string `yaml:"name"`
	SubjectPrefix   string `yaml:"subject_prefix"`
	MaxRetrySeconds int    `yaml:"max_retry_seconds"`
}

// Connect opens a NATS connection from config.
func Connect(cfg *NatsConfig) (*nats.Conn, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			zap.S().Warnf("nats disconnected: %v", err)
		}),
	}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		zap.S().Debugf("connect nats fail: %+v", err)
		return nil, err
	}

	zap.S().Debug("connect to nats successful")
	return nc, nil
}

// ConnectWithBackoff retries Connect with exponential backoff.
func ConnectWithBackoff(cfg *NatsConfig) (*nats.Conn, error) {
	var nc *nats.Conn
	boff := backoff.NewExponentialBackOff()
	if cfg.MaxRetrySeconds > 0 {
		boff.MaxElapsedTime = time.Duration(cfg.MaxRetrySeconds) * time.Second
	}

	err := backoff.Retry(func() error {
		var err error
		nc, err = Connect(cfg)
		return err
	}, boff)
	if err != nil {
		return nil, err
	}
	return nc, nil
}
