package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"RoleMatcher/internal/domain"
	"RoleMatcher/internal/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Queries exposes the read and triage operations consumed by whatever
// transport sits in front of the system.
type Queries struct {
	store  ports.JobStore
	logger *slog.Logger
}

// NewQueries constructs the boundary query service.
func NewQueries(store ports.JobStore, logger *slog.Logger) *Queries {
	return &Queries{store: store, logger: logger}
}

// ActiveJobs lists active postings with their latest evaluation. minAction
// APPLY restricts to APPLY; WATCH admits APPLY and WATCH; empty admits all.
func (q *Queries) ActiveJobs(ctx context.Context, minAction domain.Action, limit, offset int) ([]domain.JobOverview, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return q.store.ActiveWithLatestEvaluation(ctx, minAction, limit, offset)
}

// JobDetails returns one full posting with its latest evaluation. The
// evaluation is nil when the posting has never been scored.
func (q *Queries) JobDetails(ctx context.Context, id int64) (domain.JobPosting, *domain.Evaluation, error) {
	posting, err := q.store.JobByID(ctx, id)
	if err != nil {
		return domain.JobPosting{}, nil, err
	}

	eval, err := q.store.LatestEvaluation(ctx, id)
	if err != nil {
		return domain.JobPosting{}, nil, fmt.Errorf("load evaluation for posting %d: %w", id, err)
	}
	return posting, eval, nil
}

// SetReviewStatus updates the user triage state, rejecting any value outside
// NEW, READ, IGNORED before touching storage.
func (q *Queries) SetReviewStatus(ctx context.Context, id int64, status domain.ReviewStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidReviewStatus, status)
	}
	return q.store.UpdateReviewStatus(ctx, id, status)
}

// Companies returns every monitored company with its health snapshot.
func (q *Queries) Companies(ctx context.Context) ([]domain.Company, error) {
	return q.store.ListCompanies(ctx)
}

// Stats counts active postings grouped by their latest action label.
func (q *Queries) Stats(ctx context.Context) (domain.JobStats, error) {
	return q.store.JobStats(ctx)
}

// CountActive counts active postings under the listing filter semantics.
func (q *Queries) CountActive(ctx context.Context, minAction domain.Action) (int, error) {
	return q.store.CountActive(ctx, minAction)
}
