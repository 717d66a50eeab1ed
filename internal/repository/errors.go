package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrDuplicatePermanentID = errors.New("permanent id already registered")
	ErrDuplicateAdminEmail  = errors.New("admin email already registered")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CountBucket is one row of a GROUP BY count.
type CountBucket struct {
	Key   string
	Count int
}
