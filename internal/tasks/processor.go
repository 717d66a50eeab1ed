package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"unisms/internal/models"
	"unisms/internal/queue"
)

// ObjectWriter is the archive sink; *storage.ObjectStore satisfies it.
type ObjectWriter interface {
	Put(ctx context.Context, key string, body []byte, metadata map[string]string) error
}

// Processor archives signed ledger entries and statistics snapshots.
type Processor struct {
	store  ObjectWriter
	secret string
	logger zerolog.Logger
}

func NewProcessor(store ObjectWriter, secret string, logger zerolog.Logger) *Processor {
	return &Processor{
		store:  store,
		secret: secret,
		logger: logger,
	}
}

// Handle returns nil for messages that can never succeed so they are acked
// instead of being redelivered forever.
func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	task, err := queue.DecodeTask(msg.Values)
	if err != nil {
		p.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("malformed task dropped")
		return nil
	}
	if err := task.Verify(p.secret); err != nil {
		p.logger.Warn().Err(err).Str("message_id", msg.ID).Str("type", task.Type).Msg("unsigned task dropped")
		return nil
	}

	switch task.Type {
	case queue.TaskLedger:
		return p.handleLedger(ctx, task)
	case queue.TaskStatistics:
		return p.handleStatistics(ctx, task)
	default:
		p.logger.Warn().Str("type", task.Type).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleLedger(ctx context.Context, task queue.Task) error {
	var entry models.LedgerEntry
	if err := json.Unmarshal(task.Data, &entry); err != nil {
		p.logger.Warn().Err(err).Str("history_id", task.ID).Msg("ledger payload unreadable")
		return nil
	}

	key := ArchiveKey(queue.TaskLedger, entry.CreatedAt, task.ID)
	if err := p.store.Put(ctx, key, task.Data, p.metadata(task)); err != nil {
		return fmt.Errorf("archive ledger %s: %w", task.ID, err)
	}
	p.logger.Info().Str("history_id", task.ID).Str("key", key).Msg("ledger entry archived")
	return nil
}

func (p *Processor) handleStatistics(ctx context.Context, task queue.Task) error {
	var snapshot struct {
		GeneratedAt time.Time `json:"generatedAt"`
	}
	if err := json.Unmarshal(task.Data, &snapshot); err != nil {
		p.logger.Warn().Err(err).Str("snapshot_id", task.ID).Msg("statistics payload unreadable")
		return nil
	}

	key := ArchiveKey(queue.TaskStatistics, snapshot.GeneratedAt, task.ID)
	if err := p.store.Put(ctx, key, task.Data, p.metadata(task)); err != nil {
		return fmt.Errorf("archive statistics %s: %w", task.ID, err)
	}
	p.logger.Info().Str("key", key).Msg("statistics snapshot archived")
	return nil
}

func (p *Processor) metadata(task queue.Task) map[string]string {
	return map[string]string{
		"task-type": task.Type,
		"signature": task.Signature,
	}
}

// ArchiveKey lays documents out as <kind>/YYYY/MM/DD/<id>.json. A zero
// timestamp files the document under the current day.
func ArchiveKey(kind string, at time.Time, id string) string {
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("%s/%s/%s.json", kind, at.UTC().Format("2006/01/02"), id)
}
