package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"unisms/internal/middleware"
	"unisms/internal/models"
	"unisms/internal/service"
)

type Authenticator interface {
	SignupStudent(ctx context.Context, input service.StudentSignupInput) (string, error)
	SignupTeacher(ctx context.Context, input service.TeacherSignupInput) (string, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type ProfileEditor interface {
	UpdateStudent(ctx context.Context, id string, input service.StudentProfileInput) (models.Student, error)
	UpdateTeacher(ctx context.Context, id string, input service.TeacherProfileInput) (models.Teacher, error)
}

type Directory interface {
	Students(ctx context.Context) ([]models.Student, error)
	Teachers(ctx context.Context) ([]models.Teacher, error)
	Statistics(ctx context.Context) (service.Statistics, error)
}

type Notifier interface {
	Send(ctx context.Context, input service.SendInput) (service.SendResult, error)
}

type History interface {
	ListRecent(ctx context.Context, limit int) ([]models.LedgerEntry, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Auth          Authenticator
	Profiles      ProfileEditor
	Directory     Directory
	Notifications Notifier
	History       History
}

// HandlerSet exposes the REST surface. DB and Cache are only used by the
// health probe; Metrics may be nil.
type HandlerSet struct {
	log         zerolog.Logger
	environment string
	jwtSecret   string
	services    Services
	metrics     http.Handler
	db          Pinger
	cache       *redis.Client
}

type Options struct {
	Environment string
	JWTSecret   string
	Metrics     http.Handler
	DB          Pinger
	Cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, services Services, opts Options) HandlerSet {
	return HandlerSet{
		log:         log,
		environment: opts.Environment,
		jwtSecret:   opts.JWTSecret,
		services:    services,
		metrics:     opts.Metrics,
		db:          opts.DB,
		cache:       opts.Cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	if h.metrics != nil {
		router.GET("/metrics",
			middleware.Auth(h.jwtSecret),
			middleware.RequireRoles(models.RoleAdmin),
			gin.WrapH(h.metrics),
		)
	}

	auth := router.Group("/auth")
	auth.POST("/signup/student", h.SignupStudent)
	auth.POST("/signup/teacher", h.SignupTeacher)
	auth.POST("/login", h.Login)

	profile := router.Group("/profile")
	profile.Use(middleware.Auth(h.jwtSecret))
	profile.PUT("/student", middleware.RequireRoles(models.RoleStudent), h.UpdateStudentProfile)
	profile.PUT("/teacher", middleware.RequireRoles(models.RoleTeacher), h.UpdateTeacherProfile)

	admin := router.Group("/admin")
	admin.Use(
		middleware.Auth(h.jwtSecret),
		middleware.RequireRoles(models.RoleAdmin),
	)
	admin.GET("/students", h.ListStudents)
	admin.GET("/teachers", h.ListTeachers)
	admin.GET("/statistics", h.Statistics)

	sms := router.Group("/sms")
	sms.Use(
		middleware.Auth(h.jwtSecret),
		middleware.RequireRoles(models.RoleAdmin),
	)
	sms.POST("/send", h.SendSMS)
	sms.GET("/history", h.SMSHistory)
}
