package usecase

import (
	"context"
	"errors"
	"testing"

	"homepro/internal/domain/bid"
	"homepro/internal/domain/job"
	"homepro/internal/domain/profile"
	"homepro/internal/repository"

	"github.com/google/uuid"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]profile.Profile{}}
}

func (f *fakeProfileRepo) Create(_ context.Context, p profile.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (profile.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (f *fakeProfileRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p profile.Profile) error {
	if _, ok := f.profiles[p.ID]; !ok {
		return profile.ErrNotFound
	}
	f.profiles[p.ID] = p
	return nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]job.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]job.Job{}}
}

func (f *fakeJobRepo) Create(_ context.Context, j job.Job) error {
	f.jobs[j.ID] = j
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobRepo) List(_ context.Context, _ repository.JobListFilter) ([]job.Job, error) {
	out := make([]job.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJobRepo) ListByPoster(_ context.Context, posterID uuid.UUID) ([]job.Job, error) {
	out := make([]job.Job, 0)
	for _, j := range f.jobs {
		if j.PosterID == posterID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) UpdateStatus(_ context.Context, id uuid.UUID, status job.Status) error {
	j, ok := f.jobs[id]
	if !ok {
		return job.ErrNotFound
	}
	j.Status = status
	f.jobs[id] = j
	return nil
}

type fakeBidRepo struct {
	bids map[uuid.UUID]bid.Bid
	jobs *fakeJobRepo
}

func newFakeBidRepo(jobs *fakeJobRepo) *fakeBidRepo {
	return &fakeBidRepo{bids: map[uuid.UUID]bid.Bid{}, jobs: jobs}
}

func (f *fakeBidRepo) Create(_ context.Context, b bid.Bid) error {
	for _, existing := range f.bids {
		if existing.JobID == b.JobID && existing.BidderID == b.BidderID {
			return repository.ErrDuplicateBid
		}
	}
	f.bids[b.ID] = b
	return nil
}

func (f *fakeBidRepo) GetByID(_ context.Context, id uuid.UUID) (bid.Bid, error) {
	b, ok := f.bids[id]
	if !ok {
		return bid.Bid{}, bid.ErrNotFound
	}
	return b, nil
}

func (f *fakeBidRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]bid.Bid, error) {
	out := make([]bid.Bid, 0)
	for _, b := range f.bids {
		if b.JobID == jobID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBidRepo) ListByBidder(_ context.Context, bidderID uuid.UUID) ([]bid.Bid, error) {
	out := make([]bid.Bid, 0)
	for _, b := range f.bids {
		if b.BidderID == bidderID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBidRepo) HasBid(_ context.Context, jobID, bidderID uuid.UUID) (bool, error) {
	for _, b := range f.bids {
		if b.JobID == jobID && b.BidderID == bidderID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBidRepo) UpdateStatus(_ context.Context, id uuid.UUID, status bid.Status) error {
	b, ok := f.bids[id]
	if !ok {
		return bid.ErrNotFound
	}
	b.Status = status
	f.bids[id] = b
	return nil
}

func (f *fakeBidRepo) AcceptCascade(_ context.Context, bidID, jobID uuid.UUID) error {
	target, ok := f.bids[bidID]
	if !ok || target.JobID != jobID {
		return bid.ErrNotFound
	}

	// Siblings are demoted before the target is promoted, so a previously
	// accepted bid frees the job's single accepted slot first.
	for id, b := range f.bids {
		if b.JobID == jobID && id != bidID && b.Status != bid.StatusRejected {
			b.Status = bid.StatusRejected
			f.bids[id] = b
		}
	}
	for id, b := range f.bids {
		if id != bidID && b.JobID == jobID && b.Status == bid.StatusAccepted {
			return errors.New("second accepted bid for job")
		}
	}

	target.Status = bid.StatusAccepted
	f.bids[bidID] = target

	return f.jobs.UpdateStatus(context.Background(), jobID, job.StatusInProgress)
}

type bidFixture struct {
	uc       *Bids
	jobs     *fakeJobRepo
	bids     *fakeBidRepo
	profiles *fakeProfileRepo

	posterID uuid.UUID
	jobID    uuid.UUID
}

func newBidFixture(t *testing.T) *bidFixture {
	t.Helper()

	profiles := newFakeProfileRepo()
	jobs := newFakeJobRepo()
	bids := newFakeBidRepo(jobs)

	posterID := uuid.New()
	profiles.profiles[posterID] = profile.Profile{
		ID: posterID, Email: "poster@example.com", Name: "Pat Poster", Role: profile.RoleJobPoster,
	}

	jobID := uuid.New()
	jobs.jobs[jobID] = job.Job{
		ID: jobID, PosterID: posterID, Title: "Fix leaking roof", Status: job.StatusOpen,
	}

	return &bidFixture{
		uc:       NewBidUsecase(bids, jobs, profiles, nil, nil, nil),
		jobs:     jobs,
		bids:     bids,
		profiles: profiles,
		posterID: posterID,
		jobID:    jobID,
	}
}

func (fx *bidFixture) addProfessional(email string) uuid.UUID {
	id := uuid.New()
	fx.profiles.profiles[id] = profile.Profile{
		ID: id, Email: email, Name: "Pro " + email, Role: profile.RoleProfessional,
	}
	return id
}

func TestSubmitBid_OwnJobRejected(t *testing.T) {
	fx := newBidFixture(t)

	// Give the poster a professional role so only the ownership rule fires.
	p := fx.profiles.profiles[fx.posterID]
	p.Role = profile.RoleProfessional
	fx.profiles.profiles[fx.posterID] = p

	_, err := fx.uc.SubmitBid(context.Background(), fx.posterID, SubmitBidInput{
		JobID: fx.jobID, Amount: 10000,
	})
	if !errors.Is(err, ErrOwnJobBid) {
		t.Fatalf("expected ErrOwnJobBid, got %v", err)
	}
}

func TestSubmitBid_PosterRoleNotAllowed(t *testing.T) {
	fx := newBidFixture(t)

	otherPoster := uuid.New()
	fx.profiles.profiles[otherPoster] = profile.Profile{
		ID: otherPoster, Email: "other@example.com", Role: profile.RoleJobPoster,
	}

	_, err := fx.uc.SubmitBid(context.Background(), otherPoster, SubmitBidInput{
		JobID: fx.jobID, Amount: 10000,
	})
	if !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("expected ErrRoleNotAllowed, got %v", err)
	}
}

func TestSubmitBid_Pending(t *testing.T) {
	fx := newBidFixture(t)
	pro := fx.addProfessional("pro@example.com")

	b, err := fx.uc.SubmitBid(context.Background(), pro, SubmitBidInput{
		JobID: fx.jobID, Amount: 25000, Message: "Can start Monday",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Status != bid.StatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}
	if b.Amount != 25000 {
		t.Fatalf("expected amount 25000, got %d", b.Amount)
	}
}

func TestSubmitBid_RateTimesHoursMatchesDirectAmount(t *testing.T) {
	fx := newBidFixture(t)
	pro1 := fx.addProfessional("pro1@example.com")
	pro2 := fx.addProfessional("pro2@example.com")

	direct, err := fx.uc.SubmitBid(context.Background(), pro1, SubmitBidInput{
		JobID: fx.jobID, Amount: 4500 * 8,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	derived, err := fx.uc.SubmitBid(context.Background(), pro2, SubmitBidInput{
		JobID: fx.jobID, HourlyRate: 4500, EstimatedHours: 8,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if direct.Amount != derived.Amount {
		t.Fatalf("direct=%d derived=%d, want equal", direct.Amount, derived.Amount)
	}
}

func TestSubmitBid_DuplicatePerJobAndBidder(t *testing.T) {
	fx := newBidFixture(t)
	pro := fx.addProfessional("pro@example.com")

	if _, err := fx.uc.SubmitBid(context.Background(), pro, SubmitBidInput{JobID: fx.jobID, Amount: 100}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := fx.uc.SubmitBid(context.Background(), pro, SubmitBidInput{JobID: fx.jobID, Amount: 200})
	if !errors.Is(err, ErrDuplicateBid) {
		t.Fatalf("expected ErrDuplicateBid, got %v", err)
	}
}

func TestAcceptBid_CascadeEndState(t *testing.T) {
	fx := newBidFixture(t)
	ctx := context.Background()

	var ids [3]uuid.UUID
	for i, email := range []string{"b1@example.com", "b2@example.com", "b3@example.com"} {
		pro := fx.addProfessional(email)
		b, err := fx.uc.SubmitBid(ctx, pro, SubmitBidInput{JobID: fx.jobID, Amount: int64(1000 * (i + 1))})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		ids[i] = b.ID
	}

	accepted, err := fx.uc.AcceptBid(ctx, fx.posterID, ids[0])
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != bid.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}

	acceptedCount := 0
	for _, id := range ids {
		b, err := fx.bids.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		switch {
		case id == ids[0] && b.Status != bid.StatusAccepted:
			t.Fatalf("target bid not accepted: %s", b.Status)
		case id != ids[0] && b.Status != bid.StatusRejected:
			t.Fatalf("sibling bid not rejected: %s", b.Status)
		}
		if b.Status == bid.StatusAccepted {
			acceptedCount++
		}
	}
	if acceptedCount != 1 {
		t.Fatalf("expected exactly one accepted bid, got %d", acceptedCount)
	}

	j, err := fx.jobs.GetByID(ctx, fx.jobID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if j.Status != job.StatusInProgress {
		t.Fatalf("expected job in_progress, got %s", j.Status)
	}
}

func TestAcceptBid_ReacceptAfterReopen(t *testing.T) {
	fx := newBidFixture(t)
	ctx := context.Background()

	pro1 := fx.addProfessional("pro1@example.com")
	pro2 := fx.addProfessional("pro2@example.com")

	b1, err := fx.uc.SubmitBid(ctx, pro1, SubmitBidInput{JobID: fx.jobID, Amount: 1000})
	if err != nil {
		t.Fatalf("submit b1: %v", err)
	}
	b2, err := fx.uc.SubmitBid(ctx, pro2, SubmitBidInput{JobID: fx.jobID, Amount: 2000})
	if err != nil {
		t.Fatalf("submit b2: %v", err)
	}

	if _, err := fx.uc.AcceptBid(ctx, fx.posterID, b1.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	// Poster reopens the job and changes their mind.
	if err := fx.jobs.UpdateStatus(ctx, fx.jobID, job.StatusOpen); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	accepted, err := fx.uc.AcceptBid(ctx, fx.posterID, b2.ID)
	if err != nil {
		t.Fatalf("accept after reopen: %v", err)
	}
	if accepted.Status != bid.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}

	got1, _ := fx.bids.GetByID(ctx, b1.ID)
	if got1.Status != bid.StatusRejected {
		t.Fatalf("previously accepted bid = %s, want rejected", got1.Status)
	}
	j, _ := fx.jobs.GetByID(ctx, fx.jobID)
	if j.Status != job.StatusInProgress {
		t.Fatalf("job = %s, want in_progress", j.Status)
	}
}

func TestAcceptBid_NotOwner(t *testing.T) {
	fx := newBidFixture(t)
	ctx := context.Background()
	pro := fx.addProfessional("pro@example.com")

	b, err := fx.uc.SubmitBid(ctx, pro, SubmitBidInput{JobID: fx.jobID, Amount: 5000})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = fx.uc.AcceptBid(ctx, pro, b.ID)
	if !errors.Is(err, ErrNotJobOwner) {
		t.Fatalf("expected ErrNotJobOwner, got %v", err)
	}
}

func TestRejectBid_Idempotent(t *testing.T) {
	fx := newBidFixture(t)
	ctx := context.Background()
	pro := fx.addProfessional("pro@example.com")

	b, err := fx.uc.SubmitBid(ctx, pro, SubmitBidInput{JobID: fx.jobID, Amount: 5000})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	first, err := fx.uc.RejectBid(ctx, fx.posterID, b.ID)
	if err != nil {
		t.Fatalf("first reject: %v", err)
	}
	if first.Status != bid.StatusRejected {
		t.Fatalf("expected rejected, got %s", first.Status)
	}

	second, err := fx.uc.RejectBid(ctx, fx.posterID, b.ID)
	if err != nil {
		t.Fatalf("second reject should be a no-op, got %v", err)
	}
	if second.Status != bid.StatusRejected {
		t.Fatalf("expected rejected, got %s", second.Status)
	}
}

func TestAcceptThenRejectAlreadyRejectedSibling(t *testing.T) {
	fx := newBidFixture(t)
	ctx := context.Background()

	var ids [3]uuid.UUID
	for i, email := range []string{"b1@example.com", "b2@example.com", "b3@example.com"} {
		pro := fx.addProfessional(email)
		b, err := fx.uc.SubmitBid(ctx, pro, SubmitBidInput{JobID: fx.jobID, Amount: 1000})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		ids[i] = b.ID
	}

	if _, err := fx.uc.AcceptBid(ctx, fx.posterID, ids[0]); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// B2 was cascade-rejected; an explicit reject is a silent no-op.
	if _, err := fx.uc.RejectBid(ctx, fx.posterID, ids[1]); err != nil {
		t.Fatalf("reject already rejected: %v", err)
	}

	b1, _ := fx.bids.GetByID(ctx, ids[0])
	b2, _ := fx.bids.GetByID(ctx, ids[1])
	b3, _ := fx.bids.GetByID(ctx, ids[2])
	j, _ := fx.jobs.GetByID(ctx, fx.jobID)

	if b1.Status != bid.StatusAccepted || b2.Status != bid.StatusRejected || b3.Status != bid.StatusRejected {
		t.Fatalf("unexpected end state: b1=%s b2=%s b3=%s", b1.Status, b2.Status, b3.Status)
	}
	if j.Status != job.StatusInProgress {
		t.Fatalf("expected job in_progress, got %s", j.Status)
	}
}

func TestListJobBids_VisibilityByRole(t *testing.T) {
	fx := newBidFixture(t)
	ctx := context.Background()
	pro1 := fx.addProfessional("pro1@example.com")
	pro2 := fx.addProfessional("pro2@example.com")

	if _, err := fx.uc.SubmitBid(ctx, pro1, SubmitBidInput{JobID: fx.jobID, Amount: 100}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := fx.uc.SubmitBid(ctx, pro2, SubmitBidInput{JobID: fx.jobID, Amount: 200}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	posterView, err := fx.uc.ListJobBids(ctx, fx.posterID, fx.jobID)
	if err != nil {
		t.Fatalf("poster list: %v", err)
	}
	if len(posterView) != 2 {
		t.Fatalf("poster should see 2 bids, got %d", len(posterView))
	}

	proView, err := fx.uc.ListJobBids(ctx, pro1, fx.jobID)
	if err != nil {
		t.Fatalf("pro list: %v", err)
	}
	if len(proView) != 1 || proView[0].BidderID != pro1 {
		t.Fatalf("professional should see only their own bid, got %d", len(proView))
	}
}
