package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"homepro/internal/database"
	"homepro/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type JobListFilter struct {
	Status   string
	Category string
	Location string
	Limit    int
	Offset   int
}

type JobRepository interface {
	Create(ctx context.Context, j job.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	List(ctx context.Context, f JobListFilter) ([]job.Job, error)
	ListByPoster(ctx context.Context, posterID uuid.UUID) ([]job.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status job.Status) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, poster_id, title, COALESCE(description, ''), COALESCE(category, ''),
	COALESCE(location, ''), budget_min, budget_max, budget_type, COALESCE(timeline, ''),
	status, COALESCE(poster_name, ''), poster_verified, created_at, updated_at`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, poster_id, title, description, category, location,
			budget_min, budget_max, budget_type, timeline, status, poster_name, poster_verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		j.ID, j.PosterID, j.Title, j.Description, j.Category, j.Location,
		j.BudgetMin, j.BudgetMax, string(j.BudgetType), j.Timeline, string(j.Status),
		j.PosterName, j.PosterVerified,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) List(ctx context.Context, f JobListFilter) ([]job.Job, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Location != "" {
		add("location = $%d", f.Location)
	}

	q := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, offset)
	q += fmt.Sprintf(` OFFSET $%d`, len(args))

	return r.list(ctx, q, args...)
}

func (r *PostgresJobRepository) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]job.Job, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE poster_id = $1 ORDER BY created_at DESC`,
		posterID,
	)
}

func (r *PostgresJobRepository) list(ctx context.Context, q string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status job.Status) error {
	n, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var budgetType, status string
	err := row.Scan(&j.ID, &j.PosterID, &j.Title, &j.Description, &j.Category,
		&j.Location, &j.BudgetMin, &j.BudgetMax, &budgetType, &j.Timeline,
		&status, &j.PosterName, &j.PosterVerified, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return job.Job{}, err
	}
	j.BudgetType = job.BudgetType(budgetType)
	j.Status = job.Status(status)
	return j, nil
}
