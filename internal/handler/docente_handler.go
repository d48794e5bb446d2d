package handler

import (
	"net/http"

	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/docentia/tutorias-backend/internal/response"
	"github.com/docentia/tutorias-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DocenteHandler serves the public docente listing.
type DocenteHandler struct {
	docenteService *service.DocenteService
	log            zerolog.Logger
}

// NewDocenteHandler creates a new DocenteHandler.
func NewDocenteHandler(docenteService *service.DocenteService, log zerolog.Logger) *DocenteHandler {
	return &DocenteHandler{
		docenteService: docenteService,
		log:            log.With().Str("component", "docente_handler").Logger(),
	}
}

// List godoc
// GET /api/docentes
// Unauthenticated read of public docente fields, used to populate
// filter dropdowns. Never exposes password hashes.
func (h *DocenteHandler) List(c *gin.Context) {
	docentes, err := h.docenteService.ListPublic(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Docente listing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if docentes == nil {
		docentes = []model.DocentePublic{}
	}
	response.Success(c, http.StatusOK, docentes)
}
