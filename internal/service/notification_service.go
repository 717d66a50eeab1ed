package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"unisms/internal/metrics"
	"unisms/internal/models"
)

type SendInput struct {
	Message   string
	Selectors []Selector
	SentBy    string
}

type SendResult struct {
	SuccessCount int
	TotalCount   int
	HistoryID    string
	Status       models.DispatchStatus
}

// NotificationService runs one admin batch: resolve, dispatch, record.
type NotificationService struct {
	resolver   *Resolver
	dispatcher *Dispatcher
	ledger     *LedgerService
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

func NewNotificationService(resolver *Resolver, dispatcher *Dispatcher, ledger *LedgerService, m *metrics.Metrics, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		resolver:   resolver,
		dispatcher: dispatcher,
		ledger:     ledger,
		metrics:    m,
		log:        log,
	}
}

func (s *NotificationService) Send(ctx context.Context, input SendInput) (SendResult, error) {
	if strings.TrimSpace(input.Message) == "" || len(input.Selectors) == 0 {
		return SendResult{}, ErrInvalidRequest
	}

	recipients, err := s.resolver.Resolve(ctx, input.Selectors)
	if err != nil {
		return SendResult{}, err
	}

	batch, err := s.dispatcher.Dispatch(ctx, input.Message, recipients)
	if err != nil {
		return SendResult{}, err
	}

	status := AggregateStatus(batch.SuccessCount, batch.TotalCount)
	s.metrics.ObserveBatch(string(status))

	entry, err := s.ledger.Record(context.WithoutCancel(ctx), RecordInput{
		Message:    input.Message,
		Recipients: recipients,
		Delivered:  batch.Delivered,
		SentBy:     input.SentBy,
		Status:     status,
	})
	if err != nil {
		return SendResult{}, err
	}

	s.log.Info().
		Str("history_id", entry.ID).
		Str("sent_by", input.SentBy).
		Int("success_count", batch.SuccessCount).
		Int("total_count", batch.TotalCount).
		Str("status", string(status)).
		Msg("sms batch dispatched")

	return SendResult{
		SuccessCount: batch.SuccessCount,
		TotalCount:   batch.TotalCount,
		HistoryID:    entry.ID,
		Status:       status,
	}, nil
}
