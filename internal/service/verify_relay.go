package service

import (
	"context"
	"log/slog"
	"time"

	"bizhood/internal/model"
	"bizhood/internal/pkg"
	"bizhood/internal/repository/mysql"
)

type Sender func(ctx context.Context, ob *model.VerifyOutbox) error

// VerifyRelay 认证事件投递器：定时从 outbox 表捞事件交给 sender
type VerifyRelay struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewVerifyRelay(repo *mysql.OutboxRepository, sender Sender) *VerifyRelay {
	return &VerifyRelay{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *VerifyRelay) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *VerifyRelay) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		slog.Error("outbox query failed", "err", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			slog.Warn("outbox send failed", "id", ob.ID, "err", err)
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 把事件交给 Kafka 发布器
func KafkaSender(publisher *pkg.VerifyPublisher) Sender {
	return publisher.Publish
}

// LogSender 没配 Kafka 时的降级 sender
func LogSender(ctx context.Context, ob *model.VerifyOutbox) error {
	slog.Info("OUTBOX SEND", "type", ob.EventType, "business", ob.BusinessID, "user", ob.UserID)
	return nil
}
