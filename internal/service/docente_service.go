package service

import (
	"context"
	"encoding/json"

	"github.com/docentia/tutorias-backend/internal/config"
	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DocenteRepo is the persistence surface DocenteService needs.
// *repository.DocenteRepository satisfies it; tests use in-memory fakes.
type DocenteRepo interface {
	Create(ctx context.Context, d *model.Docente) error
	GetByCorreo(ctx context.Context, correo string) (*model.Docente, error)
	GetByID(ctx context.Context, id int) (*model.Docente, error)
	ListPublic(ctx context.Context) ([]model.DocentePublic, error)
}

// DocenteService handles docente accounts and the public listing used
// to populate filter dropdowns.
type DocenteService struct {
	repo DocenteRepo
	// rdb caches the public list; nil disables caching (tests, dev
	// without Redis).
	rdb *redis.Client
	cfg *config.Config
	log zerolog.Logger
}

// NewDocenteService creates a new DocenteService.
func NewDocenteService(repo DocenteRepo, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *DocenteService {
	return &DocenteService{
		repo: repo,
		rdb:  rdb,
		cfg:  cfg,
		log:  log.With().Str("component", "docente_service").Logger(),
	}
}

// Create registers a docente and invalidates the public-list cache.
func (s *DocenteService) Create(ctx context.Context, d *model.Docente) error {
	if err := s.repo.Create(ctx, d); err != nil {
		return err
	}
	s.invalidatePublicCache(ctx)
	return nil
}

// GetByCorreo retrieves a docente by login identity.
func (s *DocenteService) GetByCorreo(ctx context.Context, correo string) (*model.Docente, error) {
	return s.repo.GetByCorreo(ctx, correo)
}

// GetByID retrieves a docente by ID.
func (s *DocenteService) GetByID(ctx context.Context, id int) (*model.Docente, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPublic returns every docente's public fields. The list is served
// from Redis when possible; cache failures fall through to PostgreSQL
// and are logged, never surfaced.
func (s *DocenteService) ListPublic(ctx context.Context) ([]model.DocentePublic, error) {
	key := config.CacheKey.DocentesPublicKey()

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var docentes []model.DocentePublic
			if err := json.Unmarshal([]byte(cached), &docentes); err == nil {
				return docentes, nil
			}
			s.log.Warn().Str("key", key).Msg("Dropping undecodable cache entry")
			s.rdb.Del(ctx, key)
		}
	}

	docentes, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(docentes); err == nil {
			if err := s.rdb.Set(ctx, key, payload, s.cfg.DocenteCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Failed to cache docente list")
			}
		}
	}

	return docentes, nil
}

func (s *DocenteService) invalidatePublicCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.DocentesPublicKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate docente list cache")
	}
}
