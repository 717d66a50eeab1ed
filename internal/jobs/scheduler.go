package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"unisms/internal/service"
)

type StatisticsSource interface {
	ComputeStatistics(ctx context.Context) (service.Statistics, error)
}

type SnapshotPublisher interface {
	PublishStatistics(ctx context.Context, generatedAt time.Time, snapshot any) error
}

// Scheduler periodically archives a statistics snapshot.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	source    StatisticsSource
	publisher SnapshotPublisher
	log       zerolog.Logger
}

func NewScheduler(spec string, source StatisticsSource, publisher SnapshotPublisher, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		spec:      spec,
		source:    source,
		publisher: publisher,
		log:       log,
	}
}

// Start registers the snapshot job. An empty spec or missing publisher
// leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.spec == "" || s.publisher == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.snapshotStatistics); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running snapshot to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) snapshotStatistics() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.source.ComputeStatistics(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("statistics snapshot failed")
		return
	}
	if err := s.publisher.PublishStatistics(ctx, stats.GeneratedAt, stats); err != nil {
		s.log.Error().Err(err).Msg("enqueue statistics snapshot failed")
		return
	}
	s.log.Info().Int("students", stats.StudentCount).Int("teachers", stats.TeacherCount).Msg("statistics snapshot enqueued")
}
