package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"unisms/internal/models"
)

// Producer appends archive tasks to the worker stream. A nil client turns
// every publish into a no-op.
type Producer struct {
	client *redis.Client
	stream string
	secret string
}

func NewProducer(client *redis.Client, stream, secret string) *Producer {
	return &Producer{client: client, stream: stream, secret: secret}
}

func (p *Producer) PublishLedger(ctx context.Context, entry models.LedgerEntry) error {
	return p.publish(ctx, TaskLedger, entry.ID, entry)
}

// PublishStatistics archives a dashboard snapshot keyed by its generation
// time.
func (p *Producer) PublishStatistics(ctx context.Context, generatedAt time.Time, snapshot any) error {
	return p.publish(ctx, TaskStatistics, generatedAt.UTC().Format("20060102T150405Z"), snapshot)
}

func (p *Producer) publish(ctx context.Context, taskType, id string, payload any) error {
	if p == nil || p.client == nil {
		return nil
	}
	task, err := NewTask(p.secret, taskType, id, payload)
	if err != nil {
		return err
	}
	if _, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: task.Values(),
	}).Result(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
