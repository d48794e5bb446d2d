package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/docentia/tutorias-backend/internal/middleware"
	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/docentia/tutorias-backend/internal/repository"
	"github.com/docentia/tutorias-backend/internal/response"
	"github.com/docentia/tutorias-backend/internal/service"
	"github.com/docentia/tutorias-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TutorshipHandler handles the record CRUD endpoints.
type TutorshipHandler struct {
	tutorshipService *service.TutorshipService
	log              zerolog.Logger
}

// NewTutorshipHandler creates a new TutorshipHandler.
func NewTutorshipHandler(tutorshipService *service.TutorshipService, log zerolog.Logger) *TutorshipHandler {
	return &TutorshipHandler{
		tutorshipService: tutorshipService,
		log:              log.With().Str("component", "tutorship_handler").Logger(),
	}
}

// List godoc
// GET /api/records
// Returns the records visible to the caller: every record for admins,
// own records for docentes. The scope is resolved server-side from the
// token, never from client input.
func (h *TutorshipHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	records, err := h.tutorshipService.List(c.Request.Context(), service.ResolveRecordScope(claims))
	if err != nil {
		h.log.Error().Err(err).Msg("Record listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, normalize(records))
}

// ListByDocente godoc
// GET /api/records/docente/:userId
// Returns one docente's records, most recent session first.
func (h *TutorshipHandler) ListByDocente(c *gin.Context) {
	docenteID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	records, err := h.tutorshipService.ListByDocente(c.Request.Context(), docenteID)
	if err != nil {
		h.log.Error().Err(err).Msg("Record listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, normalize(records))
}

// Create godoc
// POST /api/records
// Logs a new tutoring session owned by the caller.
func (h *TutorshipHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateTutorshipRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingField, fields)
		return
	}

	record, err := h.tutorshipService.Create(c.Request.Context(), claims, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidSignature)
			return
		}
		h.log.Error().Err(err).Msg("Record creation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, record)
}

// Update godoc
// PUT /api/records/:id
// Merges the provided fields into an existing record. Owner or admin only.
func (h *TutorshipHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateTutorshipRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingField, fields)
		return
	}

	record, err := h.tutorshipService.Update(c.Request.Context(), claims, id, &req)
	if err != nil {
		h.failMutation(c, err, "Record update failed")
		return
	}

	response.Success(c, http.StatusOK, record)
}

// Delete godoc
// DELETE /api/records/:id
// Removes a record. Owner or admin only.
func (h *TutorshipHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.tutorshipService.Delete(c.Request.Context(), claims, id); err != nil {
		h.failMutation(c, err, "Record deletion failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Registro eliminado"})
}

// failMutation maps the shared update/delete failure kinds.
func (h *TutorshipHandler) failMutation(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrInvalidSignature):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSignature)
	case errors.Is(err, service.ErrEmptyField):
		response.Fail(c, http.StatusBadRequest, response.ErrMissingField)
	default:
		h.log.Error().Err(err).Msg(logMsg)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func normalize(records []model.TutorshipWithDocente) []model.TutorshipWithDocente {
	if records == nil {
		return []model.TutorshipWithDocente{}
	}
	return records
}
