package service

import (
	"context"
	"errors"

	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/docentia/tutorias-backend/internal/signature"
	"github.com/rs/zerolog"
)

// ErrInvalidSignature is returned when a firma fails codec validation.
// It is detected before any store mutation.
var ErrInvalidSignature = errors.New("invalid embedded signature image")

// ErrEmptyField is returned when a partial update provides a field
// with an empty value. Fields stay non-empty for the record's lifetime;
// omitting a field keeps its stored value instead.
var ErrEmptyField = errors.New("provided field is empty")

// TutorshipRepo is the persistence surface TutorshipService needs.
// *repository.TutorshipRepository satisfies it; tests use in-memory fakes.
type TutorshipRepo interface {
	Create(ctx context.Context, t *model.Tutorship) error
	GetByID(ctx context.Context, id int) (*model.Tutorship, error)
	GetWithDocente(ctx context.Context, id int) (*model.TutorshipWithDocente, error)
	ListAll(ctx context.Context) ([]model.TutorshipWithDocente, error)
	ListByDocente(ctx context.Context, docenteID int) ([]model.TutorshipWithDocente, error)
	Update(ctx context.Context, t *model.Tutorship) error
	Delete(ctx context.Context, id int) error
}

// RecordScope is the single authorization policy for record reads:
// admins see everything, a docente sees only their own records. It is
// resolved once from the caller's identity and consumed uniformly, so
// the rule is never duplicated across callers.
type RecordScope struct {
	All       bool
	DocenteID int
}

// ResolveRecordScope derives the read scope from a caller's identity.
func ResolveRecordScope(caller *Claims) RecordScope {
	if caller.IsAdmin {
		return RecordScope{All: true}
	}
	return RecordScope{DocenteID: caller.ID}
}

// TutorshipService implements the authorization-aware record CRUD.
type TutorshipService struct {
	repo TutorshipRepo
	log  zerolog.Logger
}

// NewTutorshipService creates a new TutorshipService.
func NewTutorshipService(repo TutorshipRepo, log zerolog.Logger) *TutorshipService {
	return &TutorshipService{
		repo: repo,
		log:  log.With().Str("component", "tutorship_service").Logger(),
	}
}

// List returns the records visible under the given scope, most recent
// session first.
func (s *TutorshipService) List(ctx context.Context, scope RecordScope) ([]model.TutorshipWithDocente, error) {
	if scope.All {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByDocente(ctx, scope.DocenteID)
}

// ListByDocente returns the records owned by one docente.
func (s *TutorshipService) ListByDocente(ctx context.Context, docenteID int) ([]model.TutorshipWithDocente, error) {
	return s.repo.ListByDocente(ctx, docenteID)
}

// Create logs a new session owned by the caller. The owner always
// comes from the authenticated identity; a docenteId in the payload is
// never trusted. The firma must pass codec validation before anything
// is persisted.
func (s *TutorshipService) Create(ctx context.Context, caller *Claims, req *model.CreateTutorshipRequest) (*model.TutorshipWithDocente, error) {
	if !signature.Validate(req.Firma) {
		return nil, ErrInvalidSignature
	}

	fecha, err := model.ParseDate(req.Fecha)
	if err != nil {
		return nil, err
	}

	t := &model.Tutorship{
		Estudiante:       req.Estudiante,
		Codigo:           req.Codigo,
		Semestre:         req.Semestre,
		Asignatura:       req.Asignatura,
		Temas:            req.Temas,
		Compromisos:      req.Compromisos,
		Fecha:            fecha,
		Firma:            req.Firma,
		DocenteID:        caller.ID,
		PeriodoAcademico: req.PeriodoAcademico,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info().Int("record_id", t.ID).Int("docente_id", caller.ID).Msg("Tutorship created")
	return s.repo.GetWithDocente(ctx, t.ID)
}

// Update merges the provided fields into an existing record. Only the
// owning docente or an admin may update; ownership itself is immutable.
func (s *TutorshipService) Update(ctx context.Context, caller *Claims, id int, req *model.UpdateTutorshipRequest) (*model.TutorshipWithDocente, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && t.DocenteID != caller.ID {
		return nil, ErrForbidden
	}

	for _, f := range []*string{
		req.Estudiante, req.Codigo, req.Semestre, req.Asignatura,
		req.Temas, req.Compromisos, req.Fecha, req.PeriodoAcademico,
	} {
		if f != nil && *f == "" {
			return nil, ErrEmptyField
		}
	}

	if req.Firma != nil {
		if !signature.Validate(*req.Firma) {
			return nil, ErrInvalidSignature
		}
		t.Firma = *req.Firma
	}
	if req.Estudiante != nil {
		t.Estudiante = *req.Estudiante
	}
	if req.Codigo != nil {
		t.Codigo = *req.Codigo
	}
	if req.Semestre != nil {
		t.Semestre = *req.Semestre
	}
	if req.Asignatura != nil {
		t.Asignatura = *req.Asignatura
	}
	if req.Temas != nil {
		t.Temas = *req.Temas
	}
	if req.Compromisos != nil {
		t.Compromisos = *req.Compromisos
	}
	if req.PeriodoAcademico != nil {
		t.PeriodoAcademico = *req.PeriodoAcademico
	}
	if req.Fecha != nil {
		fecha, err := model.ParseDate(*req.Fecha)
		if err != nil {
			return nil, err
		}
		t.Fecha = fecha
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.repo.GetWithDocente(ctx, id)
}

// Delete removes a record under the same ownership rule as Update.
func (s *TutorshipService) Delete(ctx context.Context, caller *Claims, id int) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin && t.DocenteID != caller.ID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("record_id", id).Int("docente_id", caller.ID).Msg("Tutorship deleted")
	return nil
}
