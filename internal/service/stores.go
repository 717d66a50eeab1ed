package service

import (
	"context"

	"unisms/internal/models"
	"unisms/internal/repository"
)

type StudentStore interface {
	Create(ctx context.Context, student models.Student) error
	ExistsByPermanentID(ctx context.Context, permanentID string) (bool, error)
	FindByCredentials(ctx context.Context, permanentID, phone string) (models.Student, error)
	GetByID(ctx context.Context, id string) (models.Student, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	UpdateProfile(ctx context.Context, student models.Student) (models.Student, error)
	Count(ctx context.Context) (int, error)
	CountByLevel(ctx context.Context) ([]repository.CountBucket, error)
	CountBySpecialization(ctx context.Context) ([]repository.CountBucket, error)
}

type TeacherStore interface {
	Create(ctx context.Context, teacher models.Teacher) error
	ExistsByPermanentID(ctx context.Context, permanentID string) (bool, error)
	FindByCredentials(ctx context.Context, permanentID, phone string) (models.Teacher, error)
	GetByID(ctx context.Context, id string) (models.Teacher, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Teacher, error)
	List(ctx context.Context) ([]models.Teacher, error)
	UpdateProfile(ctx context.Context, teacher models.Teacher) (models.Teacher, error)
	Count(ctx context.Context) (int, error)
}

type AdminStore interface {
	Create(ctx context.Context, admin models.Admin) error
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
}

type LedgerStore interface {
	Insert(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)
	ListRecent(ctx context.Context, limit int) ([]models.LedgerEntry, error)
	Count(ctx context.Context) (int, error)
}

// ArchivePublisher hands persisted ledger entries to the archive worker.
type ArchivePublisher interface {
	PublishLedger(ctx context.Context, entry models.LedgerEntry) error
}

// StatisticsInvalidator drops cached dashboard counters after a write.
type StatisticsInvalidator interface {
	InvalidateStatistics(ctx context.Context) error
}

var (
	_ StatisticsInvalidator = (*DirectoryService)(nil)
	_ StudentStore = (*repository.StudentRepository)(nil)
	_ TeacherStore = (*repository.TeacherRepository)(nil)
	_ AdminStore   = (*repository.AdminRepository)(nil)
	_ LedgerStore  = (*repository.LedgerRepository)(nil)
)
