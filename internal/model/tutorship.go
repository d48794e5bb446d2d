package model

import "time"

// DateFormat is the wire format for session dates. Tutoring sessions
// carry a calendar date with no time component.
const DateFormat = "2006-01-02"

// Tutorship is one logged tutoring session owned by the docente who
// created it. DocenteID is never reassigned after creation.
type Tutorship struct {
	ID               int       `json:"id"`
	Estudiante       string    `json:"estudiante"`
	Codigo           string    `json:"codigo"`
	Semestre         string    `json:"semestre"`
	Asignatura       string    `json:"asignatura"`
	Temas            string    `json:"temas"`
	Compromisos      string    `json:"compromisos"`
	Fecha            DateOnly  `json:"fecha"`
	Firma            string    `json:"firma"`
	DocenteID        int       `json:"docenteId"`
	PeriodoAcademico string    `json:"periodoAcademico"`
	CreatedAt        time.Time `json:"-"`
}

// TutorshipWithDocente is the read projection joined with the owning
// docente's display name.
type TutorshipWithDocente struct {
	Tutorship
	DocenteNombre string `json:"docenteNombre"`
}

// CreateTutorshipRequest is the payload for logging a session. Any
// docenteId supplied by the client is ignored; ownership always comes
// from the authenticated caller.
type CreateTutorshipRequest struct {
	Estudiante       string `json:"estudiante" binding:"required,max=255"`
	Codigo           string `json:"codigo" binding:"required,max=50"`
	Semestre         string `json:"semestre" binding:"required,max=50"`
	Asignatura       string `json:"asignatura" binding:"required,max=255"`
	Temas            string `json:"temas" binding:"required"`
	Compromisos      string `json:"compromisos" binding:"required"`
	Fecha            string `json:"fecha" binding:"required,datetime=2006-01-02"`
	Firma            string `json:"firma" binding:"required"`
	PeriodoAcademico string `json:"periodoAcademico" binding:"required,max=50"`
}

// UpdateTutorshipRequest is a partial update; absent fields keep their
// stored values, provided fields must be non-empty. There is no
// docenteId field: ownership is immutable.
type UpdateTutorshipRequest struct {
	Estudiante       *string `json:"estudiante" binding:"omitempty,max=255"`
	Codigo           *string `json:"codigo" binding:"omitempty,max=50"`
	Semestre         *string `json:"semestre" binding:"omitempty,max=50"`
	Asignatura       *string `json:"asignatura" binding:"omitempty,max=255"`
	Temas            *string `json:"temas" binding:"omitempty"`
	Compromisos      *string `json:"compromisos" binding:"omitempty"`
	Fecha            *string `json:"fecha" binding:"omitempty,datetime=2006-01-02"`
	Firma            *string `json:"firma" binding:"omitempty"`
	PeriodoAcademico *string `json:"periodoAcademico" binding:"omitempty,max=50"`
}
