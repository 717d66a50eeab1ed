package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unisms/internal/models"
)

const teacherColumns = `id, permanent_id, phone, first_name, last_name, grade, specialization,
		       profile_complete, created_at, updated_at`

type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

func (r *TeacherRepository) Create(ctx context.Context, teacher models.Teacher) error {
	const query = `
		INSERT INTO teachers (
			id, permanent_id, phone, first_name, last_name, grade, specialization,
			profile_complete, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		teacher.ID,
		teacher.PermanentID,
		teacher.Phone,
		teacher.FirstName,
		teacher.LastName,
		string(teacher.Grade),
		string(teacher.Specialization),
		teacher.ProfileComplete,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePermanentID
	}
	return err
}

func (r *TeacherRepository) ExistsByPermanentID(ctx context.Context, permanentID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM teachers WHERE permanent_id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, permanentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *TeacherRepository) FindByCredentials(ctx context.Context, permanentID, phone string) (models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE permanent_id = $1 AND phone = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, permanentID, phone))
}

func (r *TeacherRepository) GetByID(ctx context.Context, id string) (models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *TeacherRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = ANY($1) ORDER BY created_at, id`
	return r.scanMany(ctx, query, ids)
}

func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers ORDER BY last_name, id`
	return r.scanMany(ctx, query)
}

func (r *TeacherRepository) UpdateProfile(ctx context.Context, teacher models.Teacher) (models.Teacher, error) {
	const query = `
		UPDATE teachers
		SET first_name = $2,
		    last_name = $3,
		    phone = $4,
		    grade = $5,
		    specialization = $6,
		    profile_complete = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + teacherColumns

	return r.scanOne(r.pool.QueryRow(ctx, query,
		teacher.ID,
		teacher.FirstName,
		teacher.LastName,
		teacher.Phone,
		string(teacher.Grade),
		string(teacher.Specialization),
		teacher.ProfileComplete,
	))
}

func (r *TeacherRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teachers`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TeacherRepository) scanOne(row pgx.Row) (models.Teacher, error) {
	teacher, err := scanTeacher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Teacher{}, ErrTeacherNotFound
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *TeacherRepository) scanMany(ctx context.Context, query string, args ...any) ([]models.Teacher, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teachers := make([]models.Teacher, 0)
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

func scanTeacher(row pgx.Row) (models.Teacher, error) {
	var (
		teacher        models.Teacher
		grade          string
		specialization string
	)
	if err := row.Scan(
		&teacher.ID,
		&teacher.PermanentID,
		&teacher.Phone,
		&teacher.FirstName,
		&teacher.LastName,
		&grade,
		&specialization,
		&teacher.ProfileComplete,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	); err != nil {
		return models.Teacher{}, err
	}
	teacher.Grade = models.Grade(grade)
	teacher.Specialization = models.Specialization(specialization)
	return teacher, nil
}
