package repository

import (
	"context"
	"database/sql"
	"errors"

	"homepro/internal/database"
	"homepro/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProfileRepository interface {
	Create(ctx context.Context, p profile.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
	GetByEmail(ctx context.Context, email string) (profile.Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, p profile.Profile) error
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, email, password_hash, name, phone, role, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Email, p.PasswordHash, p.Name, p.Phone, string(p.Role), p.Verified,
	)
	return err
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *PostgresProfileRepository) GetByEmail(ctx context.Context, email string) (profile.Profile, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *PostgresProfileRepository) get(ctx context.Context, where string, arg any) (profile.Profile, error) {
	var p profile.Profile
	var role string
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, COALESCE(name, ''), COALESCE(phone, ''), role, verified, created_at, updated_at
		 FROM profiles `+where,
		arg,
	)
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.Phone, &role, &p.Verified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	p.Role = profile.Role(role)
	return p, nil
}

func (r *PostgresProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p profile.Profile) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET name = $2, phone = $3, updated_at = now() WHERE id = $1`,
		p.ID, p.Name, p.Phone,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}
