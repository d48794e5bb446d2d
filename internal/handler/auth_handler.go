package handler

import (
	"errors"
	"net/http"

	"github.com/docentia/tutorias-backend/internal/middleware"
	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/docentia/tutorias-backend/internal/repository"
	"github.com/docentia/tutorias-backend/internal/response"
	"github.com/docentia/tutorias-backend/internal/service"
	"github.com/docentia/tutorias-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles login, registration and the profile endpoint.
type AuthHandler struct {
	authService    *service.AuthService
	docenteService *service.DocenteService
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, docenteService *service.DocenteService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		docenteService: docenteService,
		log:            log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/login
// Validates correo + password and returns a signed identity token with
// the docente's public projection. Absent docente and hash mismatch
// are indistinguishable to the caller.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingField, fields)
		return
	}

	docente, err := h.docenteService.GetByCorreo(c.Request.Context(), req.Correo)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.Error().Err(err).Msg("Docente lookup failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(docente.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(docente)
	if err != nil {
		h.log.Error().Err(err).Msg("Token generation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, model.LoginResponse{Token: token, User: *docente})
}

// Register godoc
// POST /api/register
// Creates a docente account. Admin accounts are provisioned with the
// create-admin CLI instead, never through this endpoint.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrMissingField, fields)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("Password hashing failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	docente := &model.Docente{
		Nombre:       req.Nombre,
		Correo:       req.Correo,
		PasswordHash: hash,
	}
	if err := h.docenteService.Create(c.Request.Context(), docente); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			response.Fail(c, http.StatusInternalServerError, response.ErrConflict)
			return
		}
		h.log.Error().Err(err).Msg("Docente registration failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, docente)
}

// Profile godoc
// GET /api/profile
// Returns the authenticated docente's public projection.
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	docente, err := h.docenteService.GetByID(c.Request.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Profile lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, docente)
}
