package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"RoleMatcher/internal/domain"
	"RoleMatcher/internal/ports"
)

//go:embed schema.sql
var schemaSQL string

const evaluationHistoryDepth = 3

// PostgresStore persists companies, job postings, and evaluations.
type PostgresStore struct {
	db *sql.DB
}

var (
	_ ports.JobStore           = (*PostgresStore)(nil)
	_ ports.EvaluationRecorder = (*PostgresStore)(nil)
)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the tables if they do not exist yet.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// UpsertCompany inserts a company on first sight or refreshes its careers URL
// and adapter, returning the row id either way.
func (s *PostgresStore) UpsertCompany(ctx context.Context, company domain.Company) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM companies WHERE name = $1`, company.Name).Scan(&id)

	switch {
	case err == nil:
		_, err = s.db.ExecContext(ctx,
			`UPDATE companies SET careers_url = $1, adapter = $2 WHERE id = $3`,
			company.CareersURL, company.Adapter, id)
		if err != nil {
			return 0, fmt.Errorf("update company %s: %w", company.Name, err)
		}
		return id, nil

	case errors.Is(err, sql.ErrNoRows):
		err = s.db.QueryRowContext(ctx,
			`INSERT INTO companies (name, careers_url, adapter) VALUES ($1, $2, $3) RETURNING id`,
			company.Name, company.CareersURL, company.Adapter).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert company %s: %w", company.Name, err)
		}
		return id, nil

	default:
		return 0, fmt.Errorf("lookup company %s: %w", company.Name, err)
	}
}

// UpdateCompanyStatus records the fetch outcome. An OK status also advances
// the last successful fetch timestamp.
func (s *PostgresStore) UpdateCompanyStatus(ctx context.Context, companyID int64, status domain.FetchStatus, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE companies
         SET adapter_status = $1,
             error_message = NULLIF($2, ''),
             last_successful_fetch = CASE WHEN $1 = 'OK' THEN NOW() ELSE last_successful_fetch END
         WHERE id = $3`,
		string(status), errMsg, companyID)
	if err != nil {
		return fmt.Errorf("update company status: %w", err)
	}
	return nil
}

// ListCompanies returns all companies with their health snapshot.
func (s *PostgresStore) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, careers_url, adapter, adapter_status,
                COALESCE(error_message, ''), COALESCE(last_successful_fetch, 'epoch'::timestamptz)
         FROM companies
         ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &c.CareersURL, &c.Adapter, &status, &c.ErrorMessage, &c.LastFetched); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.FetchStatus = domain.FetchStatus(status)
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return companies, nil
}

// SyncJobs upserts one company's fetched postings and marks absent postings
// inactive, all inside one transaction so a mid-cycle failure rolls the whole
// company back without touching any other company's writes.
func (s *PostgresStore) SyncJobs(ctx context.Context, companyID int64, postings []domain.RawJobPosting) (domain.SyncResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback()

	var result domain.SyncResult
	seen := make([]string, 0, len(postings))

	for _, posting := range postings {
		jobID, isNew, err := upsertPosting(ctx, tx, companyID, posting)
		if err != nil {
			return domain.SyncResult{}, err
		}
		result.TouchedJobIDs = append(result.TouchedJobIDs, jobID)
		seen = append(seen, posting.ExternalID)
		if isNew {
			result.NewCount++
		} else {
			result.UpdatedCount++
		}
	}

	if err := markMissingInactive(ctx, tx, companyID, seen); err != nil {
		return domain.SyncResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.SyncResult{}, fmt.Errorf("commit sync: %w", err)
	}
	return result, nil
}

// upsertPosting inserts on first sighting (review status defaults to NEW) or
// updates the descriptive fields. The existing user_review_status is never
// written here.
func upsertPosting(ctx context.Context, tx *sql.Tx, companyID int64, posting domain.RawJobPosting) (int64, bool, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM job_postings WHERE company_id = $1 AND external_id = $2`,
		companyID, posting.ExternalID).Scan(&id)

	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE job_postings
             SET title = $1, location = $2, department = $3, description = $4,
                 url = $5, partial_description = $6, last_seen_at = NOW(), active = TRUE
             WHERE id = $7`,
			posting.Title, posting.Location, posting.Department,
			posting.Description, posting.URL, posting.PartialDescription, id)
		if err != nil {
			return 0, false, fmt.Errorf("update posting %s: %w", posting.ExternalID, err)
		}
		return id, false, nil

	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx,
			`INSERT INTO job_postings
             (external_id, company_id, title, location, department, description, url, partial_description)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
             RETURNING id`,
			posting.ExternalID, companyID, posting.Title, posting.Location,
			posting.Department, posting.Description, posting.URL, posting.PartialDescription).Scan(&id)
		if err != nil {
			return 0, false, fmt.Errorf("insert posting %s: %w", posting.ExternalID, err)
		}
		return id, true, nil

	default:
		return 0, false, fmt.Errorf("lookup posting %s: %w", posting.ExternalID, err)
	}
}

// markMissingInactive deactivates postings absent from the latest fetch. An
// empty seen list means the source returned nothing, so every posting of the
// company goes inactive.
func markMissingInactive(ctx context.Context, tx *sql.Tx, companyID int64, seenExternalIDs []string) error {
	var err error
	if len(seenExternalIDs) == 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE job_postings SET active = FALSE WHERE company_id = $1 AND active`,
			companyID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE job_postings
             SET active = FALSE
             WHERE company_id = $1 AND active AND NOT (external_id = ANY($2))`,
			companyID, pq.Array(seenExternalIDs))
	}
	if err != nil {
		return fmt.Errorf("mark missing inactive: %w", err)
	}
	return nil
}

// RecordEvaluation appends an immutable evaluation row and prunes history to
// the three newest per posting. Scoped to one posting only.
func (s *PostgresStore) RecordEvaluation(ctx context.Context, eval domain.Evaluation) error {
	concerns, err := encodeConcerns(eval.Concerns)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin evaluation: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO evaluations
         (job_id, fit_score, seniority_score, pnl_score, transformation_score,
          industry_score, geo_score, action, summary, concerns)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		eval.JobID, eval.FitScore, eval.SeniorityScore, eval.PnLScore,
		eval.TransformationScore, eval.IndustryScore, eval.GeoScore,
		string(eval.Action), eval.Summary, concerns)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM evaluations
         WHERE job_id = $1 AND id NOT IN (
             SELECT id FROM evaluations
             WHERE job_id = $1
             ORDER BY created_at DESC, id DESC
             LIMIT $2
         )`,
		eval.JobID, evaluationHistoryDepth)
	if err != nil {
		return fmt.Errorf("prune evaluations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit evaluation: %w", err)
	}
	return nil
}
