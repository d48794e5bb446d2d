package repository

import (
	"context"
	"errors"

	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors shared by all repositories.
var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate key")
)

const uniqueViolation = "23505"

// DocenteRepository handles docente data access.
type DocenteRepository struct {
	pool *pgxpool.Pool
}

// NewDocenteRepository creates a new DocenteRepository.
func NewDocenteRepository(pool *pgxpool.Pool) *DocenteRepository {
	return &DocenteRepository{pool: pool}
}

// Create inserts a docente. Nombre and correo are unique; violations
// surface as ErrDuplicate.
func (r *DocenteRepository) Create(ctx context.Context, d *model.Docente) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO docentes (nombre, correo, password_hash, is_admin)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		d.Nombre, d.Correo, d.PasswordHash, d.IsAdmin,
	).Scan(&d.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// GetByCorreo retrieves a docente by login identity.
func (r *DocenteRepository) GetByCorreo(ctx context.Context, correo string) (*model.Docente, error) {
	d := &model.Docente{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, nombre, correo, password_hash, is_admin FROM docentes WHERE correo = $1`, correo,
	).Scan(&d.ID, &d.Nombre, &d.Correo, &d.PasswordHash, &d.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID retrieves a docente by ID.
func (r *DocenteRepository) GetByID(ctx context.Context, id int) (*model.Docente, error) {
	d := &model.Docente{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, nombre, correo, password_hash, is_admin FROM docentes WHERE id = $1`, id,
	).Scan(&d.ID, &d.Nombre, &d.Correo, &d.PasswordHash, &d.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListPublic retrieves every docente's public fields, ordered by name
// for stable dropdown rendering.
func (r *DocenteRepository) ListPublic(ctx context.Context) ([]model.DocentePublic, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nombre FROM docentes ORDER BY nombre ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docentes []model.DocentePublic
	for rows.Next() {
		var d model.DocentePublic
		if err := rows.Scan(&d.ID, &d.Nombre); err != nil {
			return nil, err
		}
		docentes = append(docentes, d)
	}
	return docentes, rows.Err()
}
