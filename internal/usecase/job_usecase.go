package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"homepro/internal/domain/job"
	"homepro/internal/domain/profile"
	"homepro/internal/infrastructure/cache"
	"homepro/internal/repository"

	"github.com/google/uuid"
)

type CreateJobInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	BudgetMin   *int64
	BudgetMax   *int64
	BudgetType  string
	Timeline    string
}

type ListJobsParams struct {
	Status   string
	Category string
	Location string
	Limit    int
	Offset   int
}

type JobUsecase interface {
	CreateJob(ctx context.Context, posterID uuid.UUID, in CreateJobInput) (job.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListJobs(ctx context.Context, p ListJobsParams) ([]job.Job, error)
	ListMyJobs(ctx context.Context, posterID uuid.UUID) ([]job.Job, error)
	ChangeStatus(ctx context.Context, callerID, jobID uuid.UUID, status string) (job.Job, error)
}

type Jobs struct {
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	cache    *cache.Redis
	logger   *log.Logger
}

func NewJobUsecase(jobs repository.JobRepository, profiles repository.ProfileRepository, c *cache.Redis, logger *log.Logger) *Jobs {
	return &Jobs{jobs: jobs, profiles: profiles, cache: c, logger: logger}
}

// CreateJob is a poster-only operation. The poster's display name and
// verification flag are snapshotted onto the row.
func (u *Jobs) CreateJob(ctx context.Context, posterID uuid.UUID, in CreateJobInput) (job.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return job.Job{}, ErrInvalidInput
	}
	bt := job.BudgetType(strings.TrimSpace(in.BudgetType))
	if bt == "" {
		bt = job.BudgetRange
	}
	if !bt.Valid() {
		return job.Job{}, ErrInvalidInput
	}
	if in.BudgetMin != nil && *in.BudgetMin < 0 {
		return job.Job{}, ErrInvalidInput
	}
	if in.BudgetMax != nil && *in.BudgetMax < 0 {
		return job.Job{}, ErrInvalidInput
	}
	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMin > *in.BudgetMax {
		return job.Job{}, ErrInvalidInput
	}

	poster, err := u.profiles.GetByID(ctx, posterID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return job.Job{}, ErrUnauthorized
		}
		return job.Job{}, ErrInternal
	}
	if poster.Role != profile.RoleJobPoster {
		return job.Job{}, ErrRoleNotAllowed
	}

	j := job.Job{
		ID:             uuid.New(),
		PosterID:       posterID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Category:       strings.TrimSpace(in.Category),
		Location:       strings.TrimSpace(in.Location),
		BudgetMin:      in.BudgetMin,
		BudgetMax:      in.BudgetMax,
		BudgetType:     bt,
		Timeline:       strings.TrimSpace(in.Timeline),
		Status:         job.StatusOpen,
		PosterName:     poster.Name,
		PosterVerified: poster.Verified,
	}

	if err := u.jobs.Create(ctx, j); err != nil {
		return job.Job{}, ErrInternal
	}
	u.invalidateListings(ctx)

	created, err := u.jobs.GetByID(ctx, j.ID)
	if err != nil {
		return job.Job{}, ErrInternal
	}
	return created, nil
}

func (u *Jobs) GetJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, err
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (u *Jobs) ListJobs(ctx context.Context, p ListJobsParams) ([]job.Job, error) {
	if p.Limit < 0 || p.Offset < 0 {
		return nil, ErrInvalidInput
	}
	if p.Status != "" && !job.Status(p.Status).Valid() {
		return nil, ErrInvalidInput
	}

	key := cache.JobListKey(p.Status, p.Category, p.Location, p.Limit, p.Offset)
	var cached []job.Job
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	out, err := u.jobs.List(ctx, repository.JobListFilter{
		Status:   p.Status,
		Category: p.Category,
		Location: p.Location,
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return nil, ErrInternal
	}

	if err := u.cache.SetJSON(ctx, key, out, 2*time.Minute); err != nil && u.logger != nil {
		u.logger.Printf("Jobs cache set failed | key=%s error=%v", key, err)
	}
	return out, nil
}

func (u *Jobs) ListMyJobs(ctx context.Context, posterID uuid.UUID) ([]job.Job, error) {
	out, err := u.jobs.ListByPoster(ctx, posterID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// ChangeStatus is owner-driven. Any status in the enumeration is reachable
// from any other; only membership is checked.
func (u *Jobs) ChangeStatus(ctx context.Context, callerID, jobID uuid.UUID, status string) (job.Job, error) {
	next := job.Status(strings.TrimSpace(status))
	if !next.Valid() {
		return job.Job{}, ErrInvalidInput
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, err
		}
		return job.Job{}, ErrInternal
	}
	if j.PosterID != callerID {
		return job.Job{}, ErrNotJobOwner
	}

	if err := u.jobs.UpdateStatus(ctx, jobID, next); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, err
		}
		return job.Job{}, ErrInternal
	}
	u.invalidateListings(ctx)

	j.Status = next
	return j, nil
}

func (u *Jobs) invalidateListings(ctx context.Context) {
	if err := u.cache.InvalidateJobLists(ctx); err != nil && u.logger != nil {
		u.logger.Printf("Jobs cache invalidation failed | error=%v", err)
	}
}
