package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/docentia/tutorias-backend/internal/config"
	"github.com/docentia/tutorias-backend/internal/handler"
	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/docentia/tutorias-backend/internal/repository"
	"github.com/docentia/tutorias-backend/internal/response"
	"github.com/docentia/tutorias-backend/internal/router"
	"github.com/docentia/tutorias-backend/internal/service"
	"github.com/docentia/tutorias-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// ─── In-memory repositories ─────────────────────────────────────────────

type memDocenteRepo struct {
	nextID   int
	docentes map[int]*model.Docente
}

func (f *memDocenteRepo) Create(_ context.Context, d *model.Docente) error {
	for _, existing := range f.docentes {
		if existing.Correo == d.Correo || existing.Nombre == d.Nombre {
			return repository.ErrDuplicate
		}
	}
	d.ID = f.nextID
	f.nextID++
	cp := *d
	f.docentes[d.ID] = &cp
	return nil
}

func (f *memDocenteRepo) GetByCorreo(_ context.Context, correo string) (*model.Docente, error) {
	for _, d := range f.docentes {
		if d.Correo == correo {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *memDocenteRepo) GetByID(_ context.Context, id int) (*model.Docente, error) {
	d, ok := f.docentes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *memDocenteRepo) ListPublic(_ context.Context) ([]model.DocentePublic, error) {
	var out []model.DocentePublic
	for id := 1; id < f.nextID; id++ {
		if d, ok := f.docentes[id]; ok {
			out = append(out, d.Public())
		}
	}
	return out, nil
}

type memTutorshipRepo struct {
	nextID  int
	records map[int]*model.Tutorship
	nombres *memDocenteRepo
}

func (f *memTutorshipRepo) Create(_ context.Context, t *model.Tutorship) error {
	t.ID = f.nextID
	f.nextID++
	cp := *t
	f.records[t.ID] = &cp
	return nil
}

func (f *memTutorshipRepo) GetByID(_ context.Context, id int) (*model.Tutorship, error) {
	t, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *memTutorshipRepo) GetWithDocente(ctx context.Context, id int) (*model.TutorshipWithDocente, error) {
	t, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	nombre := ""
	if d, err := f.nombres.GetByID(ctx, t.DocenteID); err == nil {
		nombre = d.Nombre
	}
	return &model.TutorshipWithDocente{Tutorship: *t, DocenteNombre: nombre}, nil
}

func (f *memTutorshipRepo) ListAll(ctx context.Context) ([]model.TutorshipWithDocente, error) {
	var out []model.TutorshipWithDocente
	for id := range f.records {
		t, _ := f.GetWithDocente(ctx, id)
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha.Time) {
			return out[i].Fecha.After(out[j].Fecha.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *memTutorshipRepo) ListByDocente(ctx context.Context, docenteID int) ([]model.TutorshipWithDocente, error) {
	all, _ := f.ListAll(ctx)
	var out []model.TutorshipWithDocente
	for _, t := range all {
		if t.DocenteID == docenteID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *memTutorshipRepo) Update(_ context.Context, t *model.Tutorship) error {
	if _, ok := f.records[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	f.records[t.ID] = &cp
	return nil
}

func (f *memTutorshipRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

// ─── Test harness ───────────────────────────────────────────────────────

type env struct {
	router        *gin.Engine
	auth          *service.AuthService
	docenteRepo   *memDocenteRepo
	tutorshipRepo *memTutorshipRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cfg := &config.Config{
		GinMode:    gin.TestMode,
		JWTSecret:  "test-secret",
		JWTExpiry:  24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	log := zerolog.Nop()

	docenteRepo := &memDocenteRepo{nextID: 1, docentes: make(map[int]*model.Docente)}
	tutorshipRepo := &memTutorshipRepo{nextID: 1, records: make(map[int]*model.Tutorship), nombres: docenteRepo}

	authService := service.NewAuthService(cfg)
	docenteService := service.NewDocenteService(docenteRepo, nil, cfg, log)
	tutorshipService := service.NewTutorshipService(tutorshipRepo, log)

	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, docenteService, log),
		Docente:   handler.NewDocenteHandler(docenteService, log),
		Tutorship: handler.NewTutorshipHandler(tutorshipService, log),
	}

	return &env{
		router:        router.SetupRouter(authService, handlers, cfg),
		auth:          authService,
		docenteRepo:   docenteRepo,
		tutorshipRepo: tutorshipRepo,
	}
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body struct {
		Error response.ErrorBody `json:"error"`
	}
	decodeInto(t, rec, &body)
	return body.Error.Code
}

// register creates a docente through the API and returns its login token.
func (e *env) register(t *testing.T, nombre, correo, password string) (model.Docente, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/register", "", gin.H{
		"nombre": nombre, "correo": correo, "password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/login", "", gin.H{"correo": correo, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp model.LoginResponse
	decodeInto(t, rec, &resp)
	return resp.User, resp.Token
}

func (e *env) registerAdmin(t *testing.T, nombre, correo, password string) (model.Docente, string) {
	t.Helper()
	d, _ := e.register(t, nombre, correo, password)
	e.docenteRepo.docentes[d.ID].IsAdmin = true
	rec := e.do(t, http.MethodPost, "/api/login", "", gin.H{"correo": correo, "password": password})
	var resp model.LoginResponse
	decodeInto(t, rec, &resp)
	return resp.User, resp.Token
}

const validFirma = "data:image/png;base64," +
	"iVBORw0KGgoAAAASUVORK5CYIIiVBORw0KGgoAAAASUVORK5CYIIiVBORw0KGgoAAAASUVORK5CYIIiVBORw0KGgoAAAASUVORK5CYII="

func recordPayload() gin.H {
	return gin.H{
		"estudiante":       "Grupo 3A",
		"codigo":           "20201234",
		"semestre":         "5",
		"asignatura":       "Cálculo",
		"temas":            "Derivadas",
		"compromisos":      "Repasar ejercicios",
		"fecha":            "2024-05-10",
		"firma":            validFirma,
		"periodoAcademico": "2024 - 1",
	}
}

// ─── Tests ──────────────────────────────────────────────────────────────

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Ana", "ana@x.com", "p1")

	t.Run("wrong password", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/login", "", gin.H{"correo": "ana@x.com", "password": "nope"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if code := errCode(t, rec); code != response.ErrInvalidCredentials {
			t.Errorf("code = %s, want INVALID_CREDENTIALS", code)
		}
	})

	t.Run("unknown correo", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/login", "", gin.H{"correo": "nadie@x.com", "password": "p1"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestLoginTokenCarriesIdentity(t *testing.T) {
	e := newEnv(t)
	user, token := e.register(t, "Ana", "ana@x.com", "p1")

	claims, err := e.auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.ID != user.ID || claims.Correo != "ana@x.com" || claims.IsAdmin {
		t.Errorf("claims = {id:%d correo:%q isAdmin:%v}, want {id:%d correo:%q isAdmin:false}",
			claims.ID, claims.Correo, claims.IsAdmin, user.ID, "ana@x.com")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Ana", "ana@x.com", "p1")

	rec := e.do(t, http.MethodPost, "/api/register", "", gin.H{
		"nombre": "Ana", "correo": "ana2@x.com", "password": "p2secret",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 on constraint violation", rec.Code)
	}
}

func TestRegisterNeverReturnsHash(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/register", "", gin.H{
		"nombre": "Ana", "correo": "ana@x.com", "password": "p1secret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("register response leaks password material: %s", rec.Body.String())
	}
}

func TestRegisterAcceptsShortPassword(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/register", "", gin.H{
		"nombre": "Ana", "correo": "ana@x.com", "password": "p1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/login", "", gin.H{"correo": "ana@x.com", "password": "p1"})
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, short password must round-trip", rec.Code)
	}
}

func TestTokenFailureKindsAreDistinct(t *testing.T) {
	e := newEnv(t)

	t.Run("missing token is 401", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/records", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if code := errCode(t, rec); code != response.ErrTokenRequired {
			t.Errorf("code = %s, want TOKEN_REQUIRED", code)
		}
	})

	t.Run("invalid token is 403", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/records", "garbage.token.here", nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
		if code := errCode(t, rec); code != response.ErrTokenInvalid {
			t.Errorf("code = %s, want TOKEN_INVALID", code)
		}
	})

	t.Run("expired token is 403", func(t *testing.T) {
		expiredCfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute}
		token, err := service.NewAuthService(expiredCfg).GenerateToken(&model.Docente{ID: 1, Correo: "x@x.com"})
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		rec := e.do(t, http.MethodGet, "/api/records", token, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestCreateRecordValidation(t *testing.T) {
	e := newEnv(t)
	_, token := e.register(t, "Ana", "ana@x.com", "p1")

	t.Run("missing field", func(t *testing.T) {
		for _, field := range []string{"estudiante", "codigo", "semestre", "asignatura", "temas", "compromisos"} {
			payload := recordPayload()
			payload[field] = ""
			rec := e.do(t, http.MethodPost, "/api/records", token, payload)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s empty: status = %d, want 400", field, rec.Code)
			}
			if code := errCode(t, rec); code != response.ErrMissingField {
				t.Errorf("%s empty: code = %s, want MISSING_FIELD", field, code)
			}
		}
		if len(e.tutorshipRepo.records) != 0 {
			t.Errorf("rejected creates persisted %d records", len(e.tutorshipRepo.records))
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		payload := recordPayload()
		payload["firma"] = "data:image/png;base64,short"
		rec := e.do(t, http.MethodPost, "/api/records", token, payload)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if code := errCode(t, rec); code != response.ErrInvalidSignature {
			t.Errorf("code = %s, want INVALID_SIGNATURE", code)
		}
		if len(e.tutorshipRepo.records) != 0 {
			t.Error("invalid signature was persisted")
		}
	})
}

func TestCreateIgnoresClientSuppliedOwner(t *testing.T) {
	e := newEnv(t)
	user, token := e.register(t, "Ana", "ana@x.com", "p1")

	payload := recordPayload()
	payload["docenteId"] = 999
	rec := e.do(t, http.MethodPost, "/api/records", token, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created model.TutorshipWithDocente
	decodeInto(t, rec, &created)
	if created.DocenteID != user.ID {
		t.Errorf("DocenteID = %d, want caller id %d", created.DocenteID, user.ID)
	}
}

func TestUpdateAndDeleteAuthorization(t *testing.T) {
	e := newEnv(t)
	_, ownerToken := e.register(t, "Ana", "ana@x.com", "p1")
	_, otherToken := e.register(t, "Luis", "luis@x.com", "p2")
	_, adminToken := e.registerAdmin(t, "Root", "root@x.com", "p3")

	rec := e.do(t, http.MethodPost, "/api/records", ownerToken, recordPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created model.TutorshipWithDocente
	decodeInto(t, rec, &created)
	path := fmt.Sprintf("/api/records/%d", created.ID)

	t.Run("non-owner update forbidden", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, path, otherToken, gin.H{"temas": "Integrales"})
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("non-owner delete forbidden", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, path, otherToken, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("owner update merges fields", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, path, ownerToken, gin.H{"temas": "Integrales"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var updated model.TutorshipWithDocente
		decodeInto(t, rec, &updated)
		if updated.Temas != "Integrales" {
			t.Errorf("Temas = %q", updated.Temas)
		}
		if updated.Estudiante != "Grupo 3A" {
			t.Errorf("untouched field changed: Estudiante = %q", updated.Estudiante)
		}
		if updated.DocenteNombre != "Ana" {
			t.Errorf("DocenteNombre = %q, want Ana", updated.DocenteNombre)
		}
	})

	t.Run("empty provided field rejected", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, path, ownerToken, gin.H{"temas": ""})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if code := errCode(t, rec); code != response.ErrMissingField {
			t.Errorf("code = %s, want MISSING_FIELD", code)
		}
	})

	t.Run("admin update allowed", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, path, adminToken, gin.H{"semestre": "6"})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("update unknown id is 404", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/records/4242", ownerToken, gin.H{"temas": "x"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("admin delete allowed", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, path, adminToken, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
		rec = e.do(t, http.MethodDelete, path, adminToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("second delete status = %d, want 404", rec.Code)
		}
	})
}

func TestListScopesByRole(t *testing.T) {
	e := newEnv(t)
	_, anaToken := e.register(t, "Ana", "ana@x.com", "p1")
	_, luisToken := e.register(t, "Luis", "luis@x.com", "p2")
	_, adminToken := e.registerAdmin(t, "Root", "root@x.com", "p3")

	for _, token := range []string{anaToken, luisToken} {
		rec := e.do(t, http.MethodPost, "/api/records", token, recordPayload())
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
	}

	var records []model.TutorshipWithDocente

	rec := e.do(t, http.MethodGet, "/api/records", adminToken, nil)
	decodeInto(t, rec, &records)
	if len(records) != 2 {
		t.Errorf("admin sees %d records, want 2", len(records))
	}

	rec = e.do(t, http.MethodGet, "/api/records", anaToken, nil)
	decodeInto(t, rec, &records)
	if len(records) != 1 || records[0].DocenteNombre != "Ana" {
		t.Errorf("docente list = %+v, want only Ana's record", records)
	}
}

func TestPublicDocenteListing(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Ana", "ana@x.com", "p1")
	e.register(t, "Luis", "luis@x.com", "p2")

	rec := e.do(t, http.MethodGet, "/api/docentes", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var docentes []model.DocentePublic
	decodeInto(t, rec, &docentes)
	if len(docentes) != 2 {
		t.Errorf("len = %d, want 2", len(docentes))
	}
	if strings.Contains(rec.Body.String(), "correo") {
		t.Error("public listing exposes correo")
	}
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	user, token := e.register(t, "Ana", "ana@x.com", "p1")

	rec := e.do(t, http.MethodGet, "/api/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var d model.Docente
	decodeInto(t, rec, &d)
	if d.ID != user.ID || d.Nombre != "Ana" {
		t.Errorf("profile = %+v", d)
	}
}

// TestRegisterLoginRecordFlow covers the end-to-end scenario: register,
// login, create one signed record, read it back filtered by docente.
func TestRegisterLoginRecordFlow(t *testing.T) {
	e := newEnv(t)
	user, token := e.register(t, "Ana", "ana@x.com", "p1")

	rec := e.do(t, http.MethodPost, "/api/records", token, recordPayload())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/records/docente/%d", user.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var records []model.TutorshipWithDocente
	decodeInto(t, rec, &records)
	if len(records) != 1 {
		t.Fatalf("len = %d, want exactly 1", len(records))
	}
	got := records[0]
	if got.DocenteNombre != "Ana" {
		t.Errorf("DocenteNombre = %q, want Ana", got.DocenteNombre)
	}
	if got.DocenteID != user.ID {
		t.Errorf("DocenteID = %d, want %d", got.DocenteID, user.ID)
	}
	if got.Firma != validFirma {
		t.Error("stored firma does not round-trip")
	}
	if got.Fecha.Format(model.DateFormat) != "2024-05-10" {
		t.Errorf("Fecha = %s, want 2024-05-10", got.Fecha.Format(model.DateFormat))
	}
}
