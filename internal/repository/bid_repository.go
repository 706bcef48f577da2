package repository

import (
	"context"
	"database/sql"
	"errors"

	"homepro/internal/database"
	"homepro/internal/domain/bid"
	"homepro/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateBid = errors.New("bid already submitted for this job")

type BidRepository interface {
	Create(ctx context.Context, b bid.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (bid.Bid, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]bid.Bid, error)
	ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]bid.Bid, error)
	HasBid(ctx context.Context, jobID, bidderID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status bid.Status) error
	AcceptCascade(ctx context.Context, bidID, jobID uuid.UUID) error
}

type PostgresBidRepository struct {
	db database.DB
}

func NewPostgresBidRepository(db database.DB) *PostgresBidRepository {
	return &PostgresBidRepository{db: db}
}

const bidColumns = `id, job_id, bidder_id, COALESCE(contact_name, ''), COALESCE(contact_email, ''),
	COALESCE(contact_phone, ''), amount, status, COALESCE(message, ''), created_at, updated_at`

func (r *PostgresBidRepository) Create(ctx context.Context, b bid.Bid) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO bids (id, job_id, bidder_id, contact_name, contact_email, contact_phone,
			amount, status, message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.JobID, b.BidderID, b.ContactName, b.ContactEmail, b.ContactPhone,
		b.Amount, string(b.Status), b.Message,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateBid
		}
		return err
	}
	return nil
}

func (r *PostgresBidRepository) GetByID(ctx context.Context, id uuid.UUID) (bid.Bid, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id)
	b, err := scanBid(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return bid.Bid{}, bid.ErrNotFound
		}
		return bid.Bid{}, err
	}
	return b, nil
}

func (r *PostgresBidRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]bid.Bid, error) {
	return r.list(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE job_id = $1 ORDER BY created_at ASC`,
		jobID,
	)
}

func (r *PostgresBidRepository) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]bid.Bid, error) {
	return r.list(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE bidder_id = $1 ORDER BY created_at DESC`,
		bidderID,
	)
}

func (r *PostgresBidRepository) HasBid(ctx context.Context, jobID, bidderID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bids WHERE job_id = $1 AND bidder_id = $2)`,
		jobID, bidderID,
	)
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresBidRepository) list(ctx context.Context, q string, args ...any) ([]bid.Bid, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bid.Bid, 0)
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets a single bid's status. Re-applying the same status is a
// no-op, not an error.
func (r *PostgresBidRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status bid.Status) error {
	n, err := r.db.Exec(ctx,
		`UPDATE bids SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return bid.ErrNotFound
	}
	return nil
}

// AcceptCascade performs the whole acceptance in one transaction: the target
// bid becomes accepted, every sibling bid of the job becomes rejected, and
// the job moves to in_progress. Readers never observe a partially applied
// cascade.
func (r *PostgresBidRepository) AcceptCascade(ctx context.Context, bidID, jobID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Siblings first: idx_bids_one_accepted_per_job is checked per statement,
	// so a previously accepted bid must release the slot before the target
	// takes it (the poster may reopen a job and pick a different bid).
	_, err = tx.Exec(ctx,
		`UPDATE bids SET status = $3, updated_at = now() WHERE job_id = $2 AND id <> $1 AND status <> $3`,
		bidID, jobID, string(bid.StatusRejected),
	)
	if err != nil {
		return err
	}

	n, err := tx.Exec(ctx,
		`UPDATE bids SET status = $3, updated_at = now() WHERE id = $1 AND job_id = $2`,
		bidID, jobID, string(bid.StatusAccepted),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return bid.ErrNotFound
	}

	n, err = tx.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`,
		jobID, string(job.StatusInProgress),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanBid(row database.Row) (bid.Bid, error) {
	var b bid.Bid
	var status string
	err := row.Scan(&b.ID, &b.JobID, &b.BidderID, &b.ContactName, &b.ContactEmail,
		&b.ContactPhone, &b.Amount, &status, &b.Message, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return bid.Bid{}, err
	}
	b.Status = bid.Status(status)
	return b, nil
}
