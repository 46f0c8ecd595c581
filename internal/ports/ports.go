package ports

import (
	"context"
	"time"

	"RoleMatcher/internal/domain"
)

// JobStore persists companies and job postings and answers the read paths
// consumed by the boundary layer.
type JobStore interface {
	// UpsertCompany inserts the company on first sight or refreshes its
	// careers URL and adapter name, returning the stable row id.
	UpsertCompany(ctx context.Context, company domain.Company) (int64, error)

	// UpdateCompanyStatus records the outcome of a fetch attempt. An OK
	// status also stamps the last successful fetch time.
	UpdateCompanyStatus(ctx context.Context, companyID int64, status domain.FetchStatus, errMsg string) error

	// ListCompanies returns every company with its health snapshot.
	ListCompanies(ctx context.Context) ([]domain.Company, error)

	// SyncJobs reconciles one company's fetched postings against persisted
	// state inside a single transaction: every posting is upserted by
	// (company, external id) and postings absent from the batch are marked
	// inactive. An empty batch marks all of the company's postings inactive.
	SyncJobs(ctx context.Context, companyID int64, postings []domain.RawJobPosting) (domain.SyncResult, error)

	// JobsByIDs loads postings (with company name) for scoring.
	JobsByIDs(ctx context.Context, ids []int64) ([]domain.JobPosting, error)

	// ActiveWithLatestEvaluation lists active postings joined to their most
	// recent evaluation only, ordered by fit score descending then by
	// date found descending. minAction APPLY filters to APPLY; minAction
	// WATCH admits APPLY and WATCH; empty admits everything.
	ActiveWithLatestEvaluation(ctx context.Context, minAction domain.Action, limit, offset int) ([]domain.JobOverview, error)

	// JobByID returns the full posting or domain-level not-found.
	JobByID(ctx context.Context, id int64) (domain.JobPosting, error)

	// LatestEvaluation returns the most recent evaluation for a posting, or
	// nil when the posting has never been scored.
	LatestEvaluation(ctx context.Context, jobID int64) (*domain.Evaluation, error)

	// UpdateReviewStatus sets the user triage state.
	UpdateReviewStatus(ctx context.Context, jobID int64, status domain.ReviewStatus) error

	// JobStats counts active postings by their latest action label.
	JobStats(ctx context.Context) (domain.JobStats, error)

	// CountActive counts active postings under the same filter semantics as
	// ActiveWithLatestEvaluation.
	CountActive(ctx context.Context, minAction domain.Action) (int, error)
}

// EvaluationRecorder appends immutable evaluation snapshots, pruning history
// to the three most recent per posting.
type EvaluationRecorder interface {
	RecordEvaluation(ctx context.Context, eval domain.Evaluation) error
}

// Notifier streams refresh digests to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when refresh cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
