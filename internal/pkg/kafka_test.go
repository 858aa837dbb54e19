package pkg

import (
	"context"
	"testing"

	"bizhood/internal/model"

	"github.com/segmentio/kafka-go"
)

type capturingWriter struct {
	msgs []kafka.Message
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *capturingWriter) Close() error { return nil }

func TestPublishVerifyEvent(t *testing.T) {
	w := &capturingWriter{}
	p := &VerifyPublisher{writer: w}

	ob := &model.VerifyOutbox{
		ID:         1,
		EventType:  "verify",
		BusinessID: 42,
		UserID:     7,
		Payload:    `{"business_id":42,"user_id":7,"type":"use"}`,
	}
	if err := p.Publish(t.Context(), ob); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	// key 是商家 id，保证同一商家的事件落同一分区
	if string(w.msgs[0].Key) != "42" {
		t.Errorf("expected key 42, got %q", w.msgs[0].Key)
	}
	if string(w.msgs[0].Value) != ob.Payload {
		t.Errorf("expected raw payload as value, got %q", w.msgs[0].Value)
	}
}

func TestVerifyPublisherCloseNil(t *testing.T) {
	var p *VerifyPublisher
	if err := p.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
