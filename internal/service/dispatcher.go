package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"unisms/internal/metrics"
	"unisms/internal/models"
	"unisms/internal/sms"
)

const defaultMaxConcurrency = 8

type BatchResult struct {
	SuccessCount int
	TotalCount   int
	// Delivered is indexed like the recipients passed to Dispatch.
	Delivered []bool
}

// Dispatcher fans one message out to every recipient through a bounded pool.
// A failed send never stops the others.
type Dispatcher struct {
	channel        sms.Channel
	maxConcurrency int
	metrics        *metrics.Metrics
	log            zerolog.Logger
}

func NewDispatcher(channel sms.Channel, maxConcurrency int, m *metrics.Metrics, log zerolog.Logger) *Dispatcher {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Dispatcher{
		channel:        channel,
		maxConcurrency: maxConcurrency,
		metrics:        m,
		log:            log,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, message string, recipients []Recipient) (BatchResult, error) {
	if strings.TrimSpace(message) == "" || len(recipients) == 0 {
		return BatchResult{}, ErrInvalidRequest
	}

	// A batch is not abandoned when the caller goes away.
	sendCtx := context.WithoutCancel(ctx)

	delivered := make([]bool, len(recipients))
	var successes atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.maxConcurrency)
	for i, recipient := range recipients {
		i, recipient := i, recipient
		g.Go(func() error {
			err := d.channel.Send(sendCtx, recipient.Phone, message)
			d.metrics.ObserveSend(err == nil)
			if err != nil {
				d.log.Warn().
					Err(err).
					Str("person_id", recipient.PersonID).
					Str("type", string(recipient.Type)).
					Msg("sms send failed")
				return nil
			}
			delivered[i] = true
			successes.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return BatchResult{
		SuccessCount: int(successes.Load()),
		TotalCount:   len(recipients),
		Delivered:    delivered,
	}, nil
}

// AggregateStatus reports a batch as sent when at least one recipient was
// reached.
func AggregateStatus(successCount, totalCount int) models.DispatchStatus {
	switch {
	case successCount > 0:
		return models.DispatchSent
	case totalCount > 0:
		return models.DispatchFailed
	default:
		return models.DispatchPending
	}
}
