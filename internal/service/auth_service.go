package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"unisms/internal/config"
	"unisms/internal/ids"
	"unisms/internal/models"
	"unisms/internal/repository"
	"unisms/internal/security"
)

type AuthService struct {
	students StudentStore
	teachers TeacherStore
	admins   AdminStore
	cfg      config.SecurityConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	students StudentStore,
	teachers TeacherStore,
	admins AdminStore,
	cfg config.SecurityConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		students: students,
		teachers: teachers,
		admins:   admins,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type StudentSignupInput struct {
	PermanentID    string
	Phone          string
	Level          string
	Specialization string
}

func (s *AuthService) SignupStudent(ctx context.Context, input StudentSignupInput) (string, error) {
	permanentID, phone, err := requireIdentity(input.PermanentID, input.Phone)
	if err != nil {
		return "", err
	}

	level := models.Level(input.Level)
	if !level.Valid() {
		return "", validationError("unknown level %q", input.Level)
	}
	spec, err := studentSpecialization(level, input.Specialization)
	if err != nil {
		return "", err
	}

	exists, err := s.students.ExistsByPermanentID(ctx, permanentID)
	if err != nil {
		return "", persistenceError("lookup student", err)
	}
	if exists {
		return "", ErrDuplicateIdentity
	}

	student := models.Student{
		Profile: models.Profile{
			ID:          ids.New(),
			PermanentID: permanentID,
			Phone:       phone,
		},
		Level:          level,
		Specialization: spec,
	}
	student.SetNames("", "")

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicatePermanentID) {
			return "", ErrDuplicateIdentity
		}
		return "", persistenceError("create student", err)
	}

	s.log.Info().Str("student_id", student.ID).Str("level", string(level)).Msg("student registered")
	return student.ID, nil
}

type TeacherSignupInput struct {
	PermanentID    string
	Phone          string
	Grade          string
	Specialization string
}

func (s *AuthService) SignupTeacher(ctx context.Context, input TeacherSignupInput) (string, error) {
	permanentID, phone, err := requireIdentity(input.PermanentID, input.Phone)
	if err != nil {
		return "", err
	}

	grade := models.Grade(input.Grade)
	if !grade.Valid() {
		return "", validationError("unknown grade %q", input.Grade)
	}
	spec := models.Specialization(input.Specialization)
	if !spec.Valid() {
		return "", validationError("unknown specialization %q", input.Specialization)
	}

	exists, err := s.teachers.ExistsByPermanentID(ctx, permanentID)
	if err != nil {
		return "", persistenceError("lookup teacher", err)
	}
	if exists {
		return "", ErrDuplicateIdentity
	}

	teacher := models.Teacher{
		Profile: models.Profile{
			ID:          ids.New(),
			PermanentID: permanentID,
			Phone:       phone,
		},
		Grade:          grade,
		Specialization: spec,
	}
	teacher.SetNames("", "")

	if err := s.teachers.Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicatePermanentID) {
			return "", ErrDuplicateIdentity
		}
		return "", persistenceError("create teacher", err)
	}

	s.log.Info().Str("teacher_id", teacher.ID).Msg("teacher registered")
	return teacher.ID, nil
}

type LoginInput struct {
	Identifier string
	Secret     string
	UserType   string
}

// AuthResult carries the issued token and exactly one of the role records.
type AuthResult struct {
	Token   string
	Role    models.UserRole
	Admin   *models.Admin
	Student *models.Student
	Teacher *models.Teacher
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	switch models.UserRole(input.UserType) {
	case models.RoleAdmin:
		return s.loginAdmin(ctx, input)
	case models.RoleStudent:
		return s.loginStudent(ctx, input)
	case models.RoleTeacher:
		return s.loginTeacher(ctx, input)
	default:
		return AuthResult{}, validationError("unknown user type %q", input.UserType)
	}
}

func (s *AuthService) loginAdmin(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Identifier))
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			_, _ = security.VerifyPassword(input.Secret, security.DummyHash())
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, persistenceError("lookup admin", err)
	}

	ok, err := security.VerifyPassword(input.Secret, admin.PasswordHash)
	if err != nil || !ok {
		if err != nil {
			s.log.Error().Err(err).Str("admin_id", admin.ID).Msg("stored admin hash unreadable")
		}
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.issue(security.SessionSubject{
		UserID: admin.ID,
		Role:   string(models.RoleAdmin),
		Email:  admin.Email,
	})
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, Role: models.RoleAdmin, Admin: &admin}, nil
}

func (s *AuthService) loginStudent(ctx context.Context, input LoginInput) (AuthResult, error) {
	if input.Identifier == "" || input.Secret == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	student, err := s.students.FindByCredentials(ctx, input.Identifier, input.Secret)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, persistenceError("lookup student", err)
	}

	token, err := s.issue(security.SessionSubject{
		UserID:      student.ID,
		Role:        string(models.RoleStudent),
		PermanentID: student.PermanentID,
	})
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, Role: models.RoleStudent, Student: &student}, nil
}

func (s *AuthService) loginTeacher(ctx context.Context, input LoginInput) (AuthResult, error) {
	if input.Identifier == "" || input.Secret == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	teacher, err := s.teachers.FindByCredentials(ctx, input.Identifier, input.Secret)
	if err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, persistenceError("lookup teacher", err)
	}

	token, err := s.issue(security.SessionSubject{
		UserID:      teacher.ID,
		Role:        string(models.RoleTeacher),
		PermanentID: teacher.PermanentID,
	})
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, Role: models.RoleTeacher, Teacher: &teacher}, nil
}

func (s *AuthService) issue(subject security.SessionSubject) (string, error) {
	return security.GenerateSessionToken(s.cfg.JWTSecret, subject, s.now(), s.cfg.SessionTTL)
}

func requireIdentity(permanentID, phone string) (string, string, error) {
	permanentID = strings.TrimSpace(permanentID)
	phone = strings.TrimSpace(phone)
	if permanentID == "" {
		return "", "", validationError("permanent id required")
	}
	if phone == "" {
		return "", "", validationError("phone required")
	}
	return permanentID, phone, nil
}

// studentSpecialization applies the common-track rule: L1/L2 never carry a
// specialization, every other level must.
func studentSpecialization(level models.Level, raw string) (*models.Specialization, error) {
	if level.CommonTrack() {
		return nil, nil
	}
	spec := models.Specialization(raw)
	if !spec.Valid() {
		return nil, validationError("level %s requires a specialization", level)
	}
	return &spec, nil
}
