package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"unisms/internal/cache"
	"unisms/internal/models"
)

const (
	statisticsCacheKey = "stats:overview"
	statisticsCacheTTL = 30 * time.Second
)

type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

type SpecializationCount struct {
	Specialization string `json:"specialization"`
	Count          int    `json:"count"`
}

type Statistics struct {
	StudentCount             int                   `json:"studentCount"`
	TeacherCount             int                   `json:"teacherCount"`
	SMSCount                 int                   `json:"smsCount"`
	StudentsByLevel          []LevelCount          `json:"studentsByLevel"`
	StudentsBySpecialization []SpecializationCount `json:"studentsBySpecialization"`
	GeneratedAt              time.Time             `json:"generatedAt"`
}

// DirectoryService backs the admin listings and dashboard counters.
type DirectoryService struct {
	students StudentStore
	teachers TeacherStore
	ledger   LedgerStore
	cache    *redis.Client
	log      zerolog.Logger
}

func NewDirectoryService(students StudentStore, teachers TeacherStore, ledger LedgerStore, cache *redis.Client, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		students: students,
		teachers: teachers,
		ledger:   ledger,
		cache:    cache,
		log:      log,
	}
}

func (s *DirectoryService) Students(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, persistenceError("list students", err)
	}
	return students, nil
}

func (s *DirectoryService) Teachers(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, persistenceError("list teachers", err)
	}
	return teachers, nil
}

// Statistics serves from the short-lived cache when possible.
func (s *DirectoryService) Statistics(ctx context.Context) (Statistics, error) {
	var cached Statistics
	hit, err := cache.GetJSON(ctx, s.cache, statisticsCacheKey, &cached)
	if err != nil {
		s.log.Warn().Err(err).Msg("statistics cache read failed")
	}
	if hit {
		return cached, nil
	}

	stats, err := s.ComputeStatistics(ctx)
	if err != nil {
		return Statistics{}, err
	}

	if err := cache.SetJSON(ctx, s.cache, statisticsCacheKey, stats, statisticsCacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("statistics cache write failed")
	}
	return stats, nil
}

// InvalidateStatistics drops the cached snapshot so the next read sees new
// ledger entries.
func (s *DirectoryService) InvalidateStatistics(ctx context.Context) error {
	return cache.Delete(ctx, s.cache, statisticsCacheKey)
}

// ComputeStatistics always reads the store.
func (s *DirectoryService) ComputeStatistics(ctx context.Context) (Statistics, error) {
	studentCount, err := s.students.Count(ctx)
	if err != nil {
		return Statistics{}, persistenceError("count students", err)
	}
	teacherCount, err := s.teachers.Count(ctx)
	if err != nil {
		return Statistics{}, persistenceError("count teachers", err)
	}
	smsCount, err := s.ledger.Count(ctx)
	if err != nil {
		return Statistics{}, persistenceError("count sms history", err)
	}
	byLevel, err := s.students.CountByLevel(ctx)
	if err != nil {
		return Statistics{}, persistenceError("count students by level", err)
	}
	bySpec, err := s.students.CountBySpecialization(ctx)
	if err != nil {
		return Statistics{}, persistenceError("count students by specialization", err)
	}

	stats := Statistics{
		StudentCount:             studentCount,
		TeacherCount:             teacherCount,
		SMSCount:                 smsCount,
		StudentsByLevel:          make([]LevelCount, 0, len(byLevel)),
		StudentsBySpecialization: make([]SpecializationCount, 0, len(bySpec)),
		GeneratedAt:              time.Now().UTC(),
	}
	for _, bucket := range byLevel {
		stats.StudentsByLevel = append(stats.StudentsByLevel, LevelCount{Level: bucket.Key, Count: bucket.Count})
	}
	for _, bucket := range bySpec {
		stats.StudentsBySpecialization = append(stats.StudentsBySpecialization, SpecializationCount{Specialization: bucket.Key, Count: bucket.Count})
	}
	return stats, nil
}
