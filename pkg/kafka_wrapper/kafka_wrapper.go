// Package kafkawrapper publishes engine output to Kafka.
package kafkawrapper

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

var errProducerNotInitialized = errors.New("producer not initialized")

type KafkaConfig struct {
	Brokers        []string `yaml:"brokers"`
	Topic          string   `yaml:"topic"`
	BatchSize      int      `yaml:"batch_size"`
	BatchTimeoutMs int      `yaml:"batch_timeout_ms"`
	Async          bool     `yaml:"async"`
}

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w     MessageWriter
	topic string
}

func NewProducer(cfg KafkaConfig) *Producer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeoutMs == 0 {
		cfg.BatchTimeoutMs = 10
	}

	// Hash balancer keeps one symbol on one partition, preserving trade order.
	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           time.Duration(cfg.BatchTimeoutMs) * time.Millisecond,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		Async:                  cfg.Async,
	}
	return &Producer{w: wr, topic: cfg.Topic}
}

// NewProducerWithWriter is used by tests and callers that build their own writer.
func NewProducerWithWriter(w MessageWriter) *Producer {
	return &Producer{w: w}
}

func (p *Producer) Publish(ctx context.Context, key []byte, value []byte, headers map[string]string) error {
	if p == nil || p.w == nil {
		return errProducerNotInitialized
	}
	var kh []kafka.Header
	for k, v := range headers {
		kh = append(kh, kafka.Header{Key: k, Value: []byte(v)})
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:     key,
		Value:   value,
		Headers: kh,
		Time:    time.Now(),
	})
}

func (p *Producer) PublishJSON(ctx context.Context, key string, v any, headers map[string]string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.Publish(ctx, []byte(key), b, headers)
}

func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}
