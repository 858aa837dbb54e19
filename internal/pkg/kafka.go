package pkg

import (
	"context"
	"strconv"

	"bizhood/internal/model"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// VerifyPublisher 把认证事件投到 Kafka，按商家 id 做分区 key，
// 同一商家的事件保序
type VerifyPublisher struct {
	writer messageWriter
}

func NewVerifyPublisher(brokers []string, topic string) *VerifyPublisher {
	return &VerifyPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

func (p *VerifyPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish 投递一条 outbox 事件；payload 在认证事务里就已生成
func (p *VerifyPublisher) Publish(ctx context.Context, ob *model.VerifyOutbox) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(ob.BusinessID, 10)),
		Value: []byte(ob.Payload),
	})
}
