package repository

import (
	"context"
	"errors"

	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// tutorshipSelect is the joined projection shared by all reads.
// Ordering is most recent session first; ties on the same date keep
// natural insertion order (primary key ascending).
const tutorshipSelect = `
	SELECT t.id, t.estudiante, t.codigo, t.semestre, t.asignatura, t.temas,
	       t.compromisos, t.fecha, t.firma, t.docente_id, t.periodo_academico,
	       t.created_at, d.nombre
	FROM tutorships t
	JOIN docentes d ON d.id = t.docente_id`

const tutorshipOrder = ` ORDER BY t.fecha DESC, t.id ASC`

// TutorshipRepository handles tutoring-record data access.
type TutorshipRepository struct {
	pool *pgxpool.Pool
}

// NewTutorshipRepository creates a new TutorshipRepository.
func NewTutorshipRepository(pool *pgxpool.Pool) *TutorshipRepository {
	return &TutorshipRepository{pool: pool}
}

// Create inserts a tutorship and fills in its generated fields.
func (r *TutorshipRepository) Create(ctx context.Context, t *model.Tutorship) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tutorships
		   (estudiante, codigo, semestre, asignatura, temas, compromisos,
		    fecha, firma, docente_id, periodo_academico)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		t.Estudiante, t.Codigo, t.Semestre, t.Asignatura, t.Temas, t.Compromisos,
		t.Fecha.Time, t.Firma, t.DocenteID, t.PeriodoAcademico,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByID retrieves a tutorship without the docente join.
func (r *TutorshipRepository) GetByID(ctx context.Context, id int) (*model.Tutorship, error) {
	t := &model.Tutorship{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, estudiante, codigo, semestre, asignatura, temas, compromisos,
		        fecha, firma, docente_id, periodo_academico, created_at
		 FROM tutorships WHERE id = $1`, id,
	).Scan(&t.ID, &t.Estudiante, &t.Codigo, &t.Semestre, &t.Asignatura, &t.Temas,
		&t.Compromisos, &t.Fecha.Time, &t.Firma, &t.DocenteID, &t.PeriodoAcademico, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetWithDocente retrieves a tutorship joined with its docente's name.
func (r *TutorshipRepository) GetWithDocente(ctx context.Context, id int) (*model.TutorshipWithDocente, error) {
	row := r.pool.QueryRow(ctx, tutorshipSelect+` WHERE t.id = $1`, id)
	t, err := scanTutorship(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListAll retrieves every tutorship joined with docente names.
func (r *TutorshipRepository) ListAll(ctx context.Context) ([]model.TutorshipWithDocente, error) {
	rows, err := r.pool.Query(ctx, tutorshipSelect+tutorshipOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTutorships(rows)
}

// ListByDocente retrieves the tutorships owned by one docente.
func (r *TutorshipRepository) ListByDocente(ctx context.Context, docenteID int) ([]model.TutorshipWithDocente, error) {
	rows, err := r.pool.Query(ctx, tutorshipSelect+` WHERE t.docente_id = $1`+tutorshipOrder, docenteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTutorships(rows)
}

// Update rewrites the mutable fields of a tutorship. docente_id is
// not part of the statement: ownership is immutable.
func (r *TutorshipRepository) Update(ctx context.Context, t *model.Tutorship) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tutorships SET
		   estudiante = $1, codigo = $2, semestre = $3, asignatura = $4,
		   temas = $5, compromisos = $6, fecha = $7, firma = $8, periodo_academico = $9
		 WHERE id = $10`,
		t.Estudiante, t.Codigo, t.Semestre, t.Asignatura, t.Temas, t.Compromisos,
		t.Fecha.Time, t.Firma, t.PeriodoAcademico, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a tutorship.
func (r *TutorshipRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tutorships WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTutorship(row pgx.Row) (*model.TutorshipWithDocente, error) {
	t := &model.TutorshipWithDocente{}
	err := row.Scan(&t.ID, &t.Estudiante, &t.Codigo, &t.Semestre, &t.Asignatura,
		&t.Temas, &t.Compromisos, &t.Fecha.Time, &t.Firma, &t.DocenteID,
		&t.PeriodoAcademico, &t.CreatedAt, &t.DocenteNombre)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func collectTutorships(rows pgx.Rows) ([]model.TutorshipWithDocente, error) {
	var records []model.TutorshipWithDocente
	for rows.Next() {
		t, err := scanTutorship(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *t)
	}
	return records, rows.Err()
}
