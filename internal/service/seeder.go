package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"unisms/internal/cache"
	"unisms/internal/config"
	"unisms/internal/ids"
	"unisms/internal/models"
	"unisms/internal/repository"
	"unisms/internal/security"
)

const seedLockKey = "seed:admin"

// Seeder creates the default administrator at startup if it is missing.
type Seeder struct {
	admins AdminStore
	cache  *redis.Client
	cfg    config.AdminConfig
	log    zerolog.Logger
}

func NewSeeder(admins AdminStore, cache *redis.Client, cfg config.AdminConfig, log zerolog.Logger) *Seeder {
	return &Seeder{admins: admins, cache: cache, cfg: cfg, log: log}
}

// EnsureDefaultAdmin is idempotent and safe to run from several replicas.
func (s *Seeder) EnsureDefaultAdmin(ctx context.Context) error {
	email := strings.TrimSpace(strings.ToLower(s.cfg.Email))
	if email == "" || s.cfg.Password == "" {
		return fmt.Errorf("seed admin: email and password required")
	}

	release, acquired, err := cache.Acquire(ctx, s.cache, seedLockKey, 30*time.Second)
	if err != nil {
		s.log.Warn().Err(err).Msg("seed lock unavailable, continuing without it")
	} else if !acquired {
		s.log.Info().Msg("admin seed running elsewhere, skipping")
		return nil
	}
	defer release()

	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	hash, err := security.HashPassword(s.cfg.Password)
	if err != nil {
		return fmt.Errorf("seed admin hash: %w", err)
	}

	admin := models.Admin{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         s.cfg.Name,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateAdminEmail) {
			return nil
		}
		return fmt.Errorf("seed admin create: %w", err)
	}

	s.log.Info().Str("email", email).Msg("default administrator created")
	return nil
}
