package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"homepro/internal/domain/bid"
	"homepro/internal/domain/job"
	"homepro/internal/domain/profile"
	"homepro/internal/infrastructure/cache"
	"homepro/internal/repository"
	"homepro/internal/ws"

	"github.com/google/uuid"
)

var ErrDuplicateBid = repository.ErrDuplicateBid

type SubmitBidInput struct {
	JobID          uuid.UUID
	Amount         int64
	HourlyRate     int64
	EstimatedHours int64
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	Message        string
}

type BidUsecase interface {
	SubmitBid(ctx context.Context, bidderID uuid.UUID, in SubmitBidInput) (bid.Bid, error)
	AcceptBid(ctx context.Context, callerID, bidID uuid.UUID) (bid.Bid, error)
	RejectBid(ctx context.Context, callerID, bidID uuid.UUID) (bid.Bid, error)
	ListJobBids(ctx context.Context, callerID, jobID uuid.UUID) ([]bid.Bid, error)
	ListMyBids(ctx context.Context, bidderID uuid.UUID) ([]bid.Bid, error)
}

// Bids owns the bid lifecycle: pending on submission, and on acceptance the
// whole cascade (target accepted, siblings rejected, job in_progress) in a
// single transaction.
type Bids struct {
	bids     repository.BidRepository
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	cache    *cache.Redis
	notifier *ws.Notifier
	logger   *log.Logger
}

func NewBidUsecase(
	bids repository.BidRepository,
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	c *cache.Redis,
	notifier *ws.Notifier,
	logger *log.Logger,
) *Bids {
	return &Bids{bids: bids, jobs: jobs, profiles: profiles, cache: c, notifier: notifier, logger: logger}
}

// SubmitBid creates a pending bid. The "bidder is not the job owner" rule
// lives here and only here.
func (u *Bids) SubmitBid(ctx context.Context, bidderID uuid.UUID, in SubmitBidInput) (bid.Bid, error) {
	amount, err := bid.ResolveAmount(in.Amount, in.HourlyRate, in.EstimatedHours)
	if err != nil {
		return bid.Bid{}, ErrInvalidInput
	}

	bidder, err := u.profiles.GetByID(ctx, bidderID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return bid.Bid{}, ErrUnauthorized
		}
		return bid.Bid{}, ErrInternal
	}
	if bidder.Role != profile.RoleProfessional {
		return bid.Bid{}, ErrRoleNotAllowed
	}

	j, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return bid.Bid{}, err
		}
		return bid.Bid{}, ErrInternal
	}
	if j.PosterID == bidderID {
		return bid.Bid{}, ErrOwnJobBid
	}

	b := bid.Bid{
		ID:           uuid.New(),
		JobID:        j.ID,
		BidderID:     bidderID,
		ContactName:  fallback(strings.TrimSpace(in.ContactName), bidder.Name),
		ContactEmail: fallback(strings.TrimSpace(in.ContactEmail), bidder.Email),
		ContactPhone: fallback(strings.TrimSpace(in.ContactPhone), bidder.Phone),
		Amount:       amount,
		Status:       bid.StatusPending,
		Message:      strings.TrimSpace(in.Message),
	}

	if err := u.bids.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateBid) {
			return bid.Bid{}, ErrDuplicateBid
		}
		return bid.Bid{}, ErrInternal
	}

	created, err := u.bids.GetByID(ctx, b.ID)
	if err != nil {
		return bid.Bid{}, ErrInternal
	}
	return created, nil
}

// AcceptBid runs the cascade transactionally: no reader ever sees the target
// accepted while siblings are still pending or the job still open.
func (u *Bids) AcceptBid(ctx context.Context, callerID, bidID uuid.UUID) (bid.Bid, error) {
	b, err := u.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, bid.ErrNotFound) {
			return bid.Bid{}, err
		}
		return bid.Bid{}, ErrInternal
	}

	j, err := u.jobs.GetByID(ctx, b.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return bid.Bid{}, err
		}
		return bid.Bid{}, ErrInternal
	}
	if j.PosterID != callerID {
		return bid.Bid{}, ErrNotJobOwner
	}

	if err := u.bids.AcceptCascade(ctx, bidID, b.JobID); err != nil {
		if errors.Is(err, bid.ErrNotFound) || errors.Is(err, job.ErrNotFound) {
			return bid.Bid{}, err
		}
		return bid.Bid{}, ErrInternal
	}
	u.invalidateListings(ctx)
	u.notifier.NotifyBidStatus(b.BidderID, b.ID, b.JobID, ws.EventBidAccepted)

	accepted, err := u.bids.GetByID(ctx, bidID)
	if err != nil {
		return bid.Bid{}, ErrInternal
	}
	return accepted, nil
}

// RejectBid flips one bid to rejected. Rejecting an already rejected bid is
// a no-op success, and no sibling or job state is touched.
func (u *Bids) RejectBid(ctx context.Context, callerID, bidID uuid.UUID) (bid.Bid, error) {
	b, err := u.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, bid.ErrNotFound) {
			return bid.Bid{}, err
		}
		return bid.Bid{}, ErrInternal
	}

	j, err := u.jobs.GetByID(ctx, b.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return bid.Bid{}, err
		}
		return bid.Bid{}, ErrInternal
	}
	if j.PosterID != callerID {
		return bid.Bid{}, ErrNotJobOwner
	}

	if b.Status == bid.StatusRejected {
		return b, nil
	}

	if err := u.bids.UpdateStatus(ctx, bidID, bid.StatusRejected); err != nil {
		if errors.Is(err, bid.ErrNotFound) {
			return bid.Bid{}, err
		}
		return bid.Bid{}, ErrInternal
	}
	u.notifier.NotifyBidStatus(b.BidderID, b.ID, b.JobID, ws.EventBidRejected)

	b.Status = bid.StatusRejected
	return b, nil
}

// ListJobBids returns every bid for the job's poster, and only the caller's
// own bid for anyone else.
func (u *Bids) ListJobBids(ctx context.Context, callerID, jobID uuid.UUID) ([]bid.Bid, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return nil, err
		}
		return nil, ErrInternal
	}

	all, err := u.bids.ListByJob(ctx, jobID)
	if err != nil {
		return nil, ErrInternal
	}
	if j.PosterID == callerID {
		return all, nil
	}

	own := make([]bid.Bid, 0, 1)
	for _, b := range all {
		if b.BidderID == callerID {
			own = append(own, b)
		}
	}
	return own, nil
}

func (u *Bids) ListMyBids(ctx context.Context, bidderID uuid.UUID) ([]bid.Bid, error) {
	out, err := u.bids.ListByBidder(ctx, bidderID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Bids) invalidateListings(ctx context.Context) {
	if err := u.cache.InvalidateJobLists(ctx); err != nil && u.logger != nil {
		u.logger.Printf("Bids cache invalidation failed | error=%v", err)
	}
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
