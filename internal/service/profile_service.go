package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"unisms/internal/models"
	"unisms/internal/repository"
)

// ProfileService applies a person's own profile edits. Concurrent edits of
// the same record are last-write-wins.
type ProfileService struct {
	students StudentStore
	teachers TeacherStore
	log      zerolog.Logger
}

func NewProfileService(students StudentStore, teachers TeacherStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{students: students, teachers: teachers, log: log}
}

// Empty Phone, Level, Grade or Specialization keep the stored value; names are
// always overwritten so clearing one marks the profile incomplete again.
type StudentProfileInput struct {
	FirstName      string
	LastName       string
	Phone          string
	Level          string
	Specialization string
}

func (s *ProfileService) UpdateStudent(ctx context.Context, id string, input StudentProfileInput) (models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return models.Student{}, ErrPersonNotFound
		}
		return models.Student{}, persistenceError("load student", err)
	}

	if phone := strings.TrimSpace(input.Phone); phone != "" {
		student.Phone = phone
	}
	if input.Level != "" {
		level := models.Level(input.Level)
		if !level.Valid() {
			return models.Student{}, validationError("unknown level %q", input.Level)
		}
		student.Level = level
	}
	if input.Specialization != "" {
		spec := models.Specialization(input.Specialization)
		if !spec.Valid() {
			return models.Student{}, validationError("unknown specialization %q", input.Specialization)
		}
		student.Specialization = &spec
	}
	student.ApplyTrack()
	if !student.Level.CommonTrack() && student.Specialization == nil {
		return models.Student{}, validationError("level %s requires a specialization", student.Level)
	}
	student.SetNames(input.FirstName, input.LastName)

	updated, err := s.students.UpdateProfile(ctx, student)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return models.Student{}, ErrPersonNotFound
		}
		return models.Student{}, persistenceError("update student", err)
	}

	s.log.Debug().Str("student_id", id).Bool("profile_complete", updated.ProfileComplete).Msg("student profile updated")
	return updated, nil
}

type TeacherProfileInput struct {
	FirstName      string
	LastName       string
	Phone          string
	Grade          string
	Specialization string
}

func (s *ProfileService) UpdateTeacher(ctx context.Context, id string, input TeacherProfileInput) (models.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return models.Teacher{}, ErrPersonNotFound
		}
		return models.Teacher{}, persistenceError("load teacher", err)
	}

	if phone := strings.TrimSpace(input.Phone); phone != "" {
		teacher.Phone = phone
	}
	if input.Grade != "" {
		grade := models.Grade(input.Grade)
		if !grade.Valid() {
			return models.Teacher{}, validationError("unknown grade %q", input.Grade)
		}
		teacher.Grade = grade
	}
	if input.Specialization != "" {
		spec := models.Specialization(input.Specialization)
		if !spec.Valid() {
			return models.Teacher{}, validationError("unknown specialization %q", input.Specialization)
		}
		teacher.Specialization = spec
	}
	teacher.SetNames(input.FirstName, input.LastName)

	updated, err := s.teachers.UpdateProfile(ctx, teacher)
	if err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return models.Teacher{}, ErrPersonNotFound
		}
		return models.Teacher{}, persistenceError("update teacher", err)
	}

	s.log.Debug().Str("teacher_id", id).Bool("profile_complete", updated.ProfileComplete).Msg("teacher profile updated")
	return updated, nil
}
