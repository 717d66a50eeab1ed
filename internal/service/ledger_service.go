package service

import (
	"context"

	"github.com/rs/zerolog"

	"unisms/internal/ids"
	"unisms/internal/models"
)

const MaxHistory = 100

type LedgerService struct {
	store       LedgerStore
	publisher   ArchivePublisher
	invalidator StatisticsInvalidator
	log         zerolog.Logger
}

// NewLedgerService accepts a nil publisher when archiving is disabled.
func NewLedgerService(store LedgerStore, publisher ArchivePublisher, log zerolog.Logger) *LedgerService {
	return &LedgerService{store: store, publisher: publisher, log: log}
}

// WithStatisticsInvalidator registers a cache to drop after every recorded
// batch.
func (s *LedgerService) WithStatisticsInvalidator(inv StatisticsInvalidator) *LedgerService {
	s.invalidator = inv
	return s
}

type RecordInput struct {
	Message    string
	Recipients []Recipient
	Delivered  []bool
	SentBy     string
	Status     models.DispatchStatus
}

// Record appends one entry per batch. On failure the sends have already
// happened and are not undone; the error wraps ErrPersistence.
func (s *LedgerService) Record(ctx context.Context, input RecordInput) (models.LedgerEntry, error) {
	snapshot := make([]models.RecipientSnapshot, 0, len(input.Recipients))
	successCount := 0
	for i, r := range input.Recipients {
		delivered := i < len(input.Delivered) && input.Delivered[i]
		if delivered {
			successCount++
		}
		snapshot = append(snapshot, models.RecipientSnapshot{
			Name:        r.Name,
			Phone:       r.Phone,
			Type:        r.Type,
			PermanentID: r.PermanentID,
			PersonID:    r.PersonID,
			Delivered:   delivered,
		})
	}

	entry := models.LedgerEntry{
		ID:             ids.New(),
		Message:        input.Message,
		Recipients:     snapshot,
		SentBy:         input.SentBy,
		RecipientCount: len(snapshot),
		SuccessCount:   successCount,
		Status:         input.Status,
	}

	saved, err := s.store.Insert(ctx, entry)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("sent_by", input.SentBy).
			Int("recipient_count", entry.RecipientCount).
			Msg("sms batch sent but not recorded")
		return models.LedgerEntry{}, persistenceError("record sms batch", err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateStatistics(ctx); err != nil {
			s.log.Warn().Err(err).Str("history_id", saved.ID).Msg("statistics cache invalidation failed")
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishLedger(ctx, saved); err != nil {
			s.log.Warn().Err(err).Str("history_id", saved.ID).Msg("archive publish failed")
		}
	}
	return saved, nil
}

// ListRecent returns up to limit entries, newest first. Limits outside
// (0, MaxHistory] fall back to MaxHistory.
func (s *LedgerService) ListRecent(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > MaxHistory {
		limit = MaxHistory
	}
	entries, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, persistenceError("list sms history", err)
	}
	return entries, nil
}
