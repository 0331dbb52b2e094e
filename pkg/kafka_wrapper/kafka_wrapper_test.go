package kafkawrapper

import (
	"context"
	"encoding/json"
	"testing"

	kafka "github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	err := p.PublishJSON(context.Background(), "ABC", map[string]int{"qty": 5}, map[string]string{"type": "trade"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "ABC" {
		t.Errorf("expected key ABC, got %s", msg.Key)
	}
	var body map[string]int
	if err := json.Unmarshal(msg.Value, &body); err != nil || body["qty"] != 5 {
		t.Errorf("unexpected body %s (%v)", msg.Value, err)
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != "type" || string(msg.Headers[0].Value) != "trade" {
		t.Errorf("unexpected headers %+v", msg.Headers)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("expected writer closed, err=%v", err)
	}
}

func TestNilProducer(t *testing.T) {
	var p *Producer
	if err := p.Publish(context.Background(), nil, nil, nil); err != errProducerNotInitialized {
		t.Fatalf("expected errProducerNotInitialized, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("expected nil close, got %v", err)
	}
}
