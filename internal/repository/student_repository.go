package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unisms/internal/models"
)

const studentColumns = `id, permanent_id, phone, first_name, last_name, level, specialization,
		       profile_complete, created_at, updated_at`

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Create(ctx context.Context, student models.Student) error {
	const query = `
		INSERT INTO students (
			id, permanent_id, phone, first_name, last_name, level, specialization,
			profile_complete, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		student.ID,
		student.PermanentID,
		student.Phone,
		student.FirstName,
		student.LastName,
		string(student.Level),
		specializationParam(student.Specialization),
		student.ProfileComplete,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePermanentID
	}
	return err
}

func (r *StudentRepository) ExistsByPermanentID(ctx context.Context, permanentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM students WHERE permanent_id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, permanentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *StudentRepository) FindByCredentials(ctx context.Context, permanentID, phone string) (models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE permanent_id = $1 AND phone = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, permanentID, phone))
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// ListByIDs fetches every student whose id is in ids with a single query.
func (r *StudentRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ANY($1) ORDER BY created_at, id`
	return r.scanMany(ctx, query, ids)
}

func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY level, last_name, id`
	return r.scanMany(ctx, query)
}

func (r *StudentRepository) UpdateProfile(ctx context.Context, student models.Student) (models.Student, error) {
	const query = `
		UPDATE students
		SET first_name = $2,
		    last_name = $3,
		    phone = $4,
		    level = $5,
		    specialization = $6,
		    profile_complete = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + studentColumns

	return r.scanOne(r.pool.QueryRow(ctx, query,
		student.ID,
		student.FirstName,
		student.LastName,
		student.Phone,
		string(student.Level),
		specializationParam(student.Specialization),
		student.ProfileComplete,
	))
}

func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StudentRepository) CountByLevel(ctx context.Context) ([]CountBucket, error) {
	const query = `SELECT level, COUNT(*) FROM students GROUP BY level ORDER BY level`
	return scanBuckets(ctx, r.pool, query)
}

func (r *StudentRepository) CountBySpecialization(ctx context.Context) ([]CountBucket, error) {
	const query = `
		SELECT specialization, COUNT(*) FROM students
		WHERE specialization IS NOT NULL
		GROUP BY specialization ORDER BY specialization
	`
	return scanBuckets(ctx, r.pool, query)
}

func (r *StudentRepository) scanOne(row pgx.Row) (models.Student, error) {
	student, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

func (r *StudentRepository) scanMany(ctx context.Context, query string, args ...any) ([]models.Student, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func scanStudent(row pgx.Row) (models.Student, error) {
	var (
		student        models.Student
		level          string
		specialization *string
	)
	if err := row.Scan(
		&student.ID,
		&student.PermanentID,
		&student.Phone,
		&student.FirstName,
		&student.LastName,
		&level,
		&specialization,
		&student.ProfileComplete,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return models.Student{}, err
	}
	student.Level = models.Level(level)
	if specialization != nil {
		spec := models.Specialization(*specialization)
		student.Specialization = &spec
	}
	return student, nil
}

func specializationParam(spec *models.Specialization) *string {
	if spec == nil {
		return nil
	}
	value := string(*spec)
	return &value
}

func scanBuckets(ctx context.Context, pool *pgxpool.Pool, query string) ([]CountBucket, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]CountBucket, 0)
	for rows.Next() {
		var bucket CountBucket
		if err := rows.Scan(&bucket.Key, &bucket.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}
