package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"RoleMatcher/internal/adapter"
	"RoleMatcher/internal/config"
	"RoleMatcher/internal/domain"
	"RoleMatcher/internal/ports"
	"RoleMatcher/internal/scorer"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultWorkers      = 4
	timeoutMessage      = "Timeout"
)

// ErrRefreshInProgress is returned when a refresh cycle is requested while
// another one is still running. Overlapping cycles would interleave writes to
// the same companies, so they are rejected instead.
var ErrRefreshInProgress = errors.New("refresh cycle already in progress")

// RefreshDeps wires all collaborators into the refresh use case.
type RefreshDeps struct {
	Store     ports.JobStore
	Recorder  ports.EvaluationRecorder
	Registry  *adapter.Registry
	Engine    *scorer.Engine
	Notifier  ports.Notifier
	Companies []config.CompanyConfig
	Logger    *slog.Logger

	// FetchTimeout and Workers override the 30s / 4-worker defaults; used by
	// tests.
	FetchTimeout time.Duration
	Workers      int
}

// Refresher coordinates one refresh cycle: every configured company is
// fetched concurrently under a bounded worker pool, each fetch is bounded by
// a wall-clock timeout, failures stay isolated to their company, and every
// touched posting is re-scored afterwards.
type Refresher struct {
	store        ports.JobStore
	recorder     ports.EvaluationRecorder
	registry     *adapter.Registry
	engine       *scorer.Engine
	notifier     ports.Notifier
	companies    []config.CompanyConfig
	logger       *slog.Logger
	fetchTimeout time.Duration
	workers      int

	busy sync.Mutex
}

// NewRefresher constructs the refresh use case.
func NewRefresher(deps RefreshDeps) *Refresher {
	timeout := deps.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Refresher{
		store:        deps.Store,
		recorder:     deps.Recorder,
		registry:     deps.Registry,
		engine:       deps.Engine,
		notifier:     deps.Notifier,
		companies:    deps.Companies,
		logger:       deps.Logger,
		fetchTimeout: timeout,
		workers:      workers,
	}
}

// RefreshAll runs every configured company through its adapter and re-scores
// the postings touched this cycle. Per-company results arrive in completion
// order; callers must not rely on it.
func (r *Refresher) RefreshAll(ctx context.Context) (domain.RefreshSummary, error) {
	if !r.busy.TryLock() {
		return domain.RefreshSummary{}, ErrRefreshInProgress
	}
	defer r.busy.Unlock()

	start := time.Now()

	pending := make(chan config.CompanyConfig)
	results := make(chan domain.CompanyResult)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for company := range pending {
				results <- r.refreshCompany(ctx, company)
			}
		}()
	}

	go func() {
		for _, company := range r.companies {
			pending <- company
		}
		close(pending)
		wg.Wait()
		close(results)
	}()

	var summary domain.RefreshSummary
	for result := range results {
		r.debug("company refreshed",
			"company", result.CompanyName,
			"status", result.Status,
			"new", result.NewCount,
			"updated", result.UpdatedCount,
			"error", result.ErrorMessage)
		summary.Companies = append(summary.Companies, result)
		summary.TouchedJobIDs = append(summary.TouchedJobIDs, result.TouchedJobIDs...)
	}

	if err := r.scoreTouched(ctx, summary.TouchedJobIDs); err != nil {
		return domain.RefreshSummary{}, err
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// refreshCompany runs one company end to end: company row upsert, bounded
// fetch, normalization, and transactional reconciliation. Any failure is
// captured in the result and on the company's health state, never propagated
// to other companies.
func (r *Refresher) refreshCompany(ctx context.Context, company config.CompanyConfig) domain.CompanyResult {
	result := domain.CompanyResult{CompanyName: company.Name, Status: domain.FetchOK}

	companyID, err := r.store.UpsertCompany(ctx, domain.Company{
		Name:       company.Name,
		CareersURL: company.CareersURL,
		Adapter:    company.Adapter,
	})
	if err != nil {
		return r.failCompany(ctx, result, 0, fmt.Sprintf("register company: %v", err))
	}
	result.CompanyID = companyID

	postings, err := r.fetchWithTimeout(ctx, company)
	if err != nil {
		return r.failCompany(ctx, result, companyID, err.Error())
	}

	for i := range postings {
		postings[i].Description = adapter.NormalizeText(postings[i].Description)
	}

	synced, err := r.store.SyncJobs(ctx, companyID, postings)
	if err != nil {
		return r.failCompany(ctx, result, companyID, fmt.Sprintf("sync jobs: %v", err))
	}

	if err := r.store.UpdateCompanyStatus(ctx, companyID, domain.FetchOK, ""); err != nil {
		r.warn("update company status", "company", company.Name, "error", err)
	}

	result.NewCount = synced.NewCount
	result.UpdatedCount = synced.UpdatedCount
	result.TouchedJobIDs = synced.TouchedJobIDs
	return result
}

// fetchWithTimeout races the adapter against a wall-clock bound. The fetch
// context is cancelled on timeout, so adapters that honor ctx stop their
// underlying work too; the select still protects against adapters that
// ignore it, in which case their goroutine is abandoned.
func (r *Refresher) fetchWithTimeout(ctx context.Context, company config.CompanyConfig) ([]domain.RawJobPosting, error) {
	source, err := r.registry.Resolve(company.Adapter)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	type outcome struct {
		postings []domain.RawJobPosting
		err      error
	}
	done := make(chan outcome, 1)

	go func() {
		postings, err := source.FetchJobs(fetchCtx, adapter.Request{
			CompanyName: company.Name,
			CareersURL:  company.CareersURL,
		})
		done <- outcome{postings: postings, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("fetch jobs: %w", out.err)
		}
		return out.postings, nil
	case <-fetchCtx.Done():
		return nil, errors.New(timeoutMessage)
	}
}

func (r *Refresher) failCompany(ctx context.Context, result domain.CompanyResult, companyID int64, message string) domain.CompanyResult {
	result.Status = domain.FetchError
	result.ErrorMessage = message
	if companyID != 0 {
		if err := r.store.UpdateCompanyStatus(ctx, companyID, domain.FetchError, message); err != nil {
			r.warn("update company status", "company", result.CompanyName, "error", err)
		}
	}
	return result
}

// scoreTouched evaluates and records every posting touched this cycle, then
// publishes a digest of APPLY-rated roles when a notifier is configured.
// Recording is per posting: one failed insert does not stop the rest.
func (r *Refresher) scoreTouched(ctx context.Context, touched []int64) error {
	if len(touched) == 0 {
		return nil
	}

	postings, err := r.store.JobsByIDs(ctx, touched)
	if err != nil {
		return fmt.Errorf("load touched postings: %w", err)
	}

	var applied []digestEntry
	for _, posting := range postings {
		eval := r.engine.Evaluate(posting)
		if err := r.recorder.RecordEvaluation(ctx, eval); err != nil {
			r.warn("record evaluation", "job_id", posting.ID, "error", err)
			continue
		}
		if eval.Action == domain.ActionApply {
			applied = append(applied, digestEntry{
				Title:   posting.Title,
				Score:   eval.FitScore,
				Summary: eval.Summary,
				URL:     posting.URL,
			})
		}
	}

	if r.notifier != nil && len(applied) > 0 {
		if err := r.notifier.PublishDigest(ctx, buildDigest(applied)); err != nil {
			r.warn("publish digest", "error", err)
		}
	}
	return nil
}

type digestEntry struct {
	Title   string
	Score   int
	Summary string
	URL     string
}

func buildDigest(entries []digestEntry) string {
	var formatted string
	for _, entry := range entries {
		formatted += fmt.Sprintf("- %s\nScore: %d\n%s\n%s\n\n",
			entry.Title, entry.Score, entry.Summary, entry.URL)
	}
	return formatted
}

func (r *Refresher) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Refresher) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
