package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"RoleMatcher/internal/domain"
)

// psql builds queries with Postgres $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// latestEvaluationJoin picks only the newest evaluation per posting.
const latestEvaluationJoin = `LEFT JOIN LATERAL (
    SELECT fit_score, action, summary
    FROM evaluations
    WHERE job_id = j.id
    ORDER BY created_at DESC, id DESC
    LIMIT 1
) e ON TRUE`

// JobsByIDs loads full postings (with company name) for the given ids, in no
// particular order.
func (s *PostgresStore) JobsByIDs(ctx context.Context, ids []int64) ([]domain.JobPosting, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT j.id, j.company_id, c.name, j.external_id, j.title, j.location,
                COALESCE(j.department, ''), j.description, j.url,
                j.date_found, j.last_seen_at, j.partial_description, j.active, j.user_review_status
         FROM job_postings j
         JOIN companies c ON c.id = j.company_id
         WHERE j.id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query postings: %w", err)
	}
	defer rows.Close()

	var postings []domain.JobPosting
	for rows.Next() {
		posting, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, posting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return postings, nil
}

// JobByID returns one full posting or domain.ErrJobNotFound.
func (s *PostgresStore) JobByID(ctx context.Context, id int64) (domain.JobPosting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT j.id, j.company_id, c.name, j.external_id, j.title, j.location,
                COALESCE(j.department, ''), j.description, j.url,
                j.date_found, j.last_seen_at, j.partial_description, j.active, j.user_review_status
         FROM job_postings j
         JOIN companies c ON c.id = j.company_id
         WHERE j.id = $1`,
		id)

	posting, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobPosting{}, domain.ErrJobNotFound
	}
	return posting, err
}

// ActiveWithLatestEvaluation lists active postings joined to their newest
// evaluation, ordered by fit score descending with date-found tiebreak.
func (s *PostgresStore) ActiveWithLatestEvaluation(ctx context.Context, minAction domain.Action, limit, offset int) ([]domain.JobOverview, error) {
	builder := psql.
		Select("j.id", "j.title", "c.name", "j.location", "j.url", "j.user_review_status",
			"COALESCE(e.fit_score, 0)", "COALESCE(e.action, '')", "COALESCE(e.summary, '')").
		From("job_postings j").
		Join("companies c ON c.id = j.company_id").
		JoinClause(latestEvaluationJoin).
		Where(sq.Eq{"j.active": true}).
		OrderBy("e.fit_score DESC NULLS LAST", "j.date_found DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	builder = filterByAction(builder, minAction)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build listing query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active postings: %w", err)
	}
	defer rows.Close()

	var overviews []domain.JobOverview
	for rows.Next() {
		var o domain.JobOverview
		var status, action string
		if err := rows.Scan(&o.ID, &o.Title, &o.CompanyName, &o.Location, &o.URL,
			&status, &o.FitScore, &action, &o.Summary); err != nil {
			return nil, fmt.Errorf("scan overview: %w", err)
		}
		o.ReviewStatus = domain.ReviewStatus(status)
		o.Action = domain.Action(action)
		overviews = append(overviews, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return overviews, nil
}

// LatestEvaluation returns the newest evaluation for a posting, or nil when
// the posting has never been scored.
func (s *PostgresStore) LatestEvaluation(ctx context.Context, jobID int64) (*domain.Evaluation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, job_id, fit_score, seniority_score, pnl_score, transformation_score,
                industry_score, geo_score, action, summary, concerns, created_at
         FROM evaluations
         WHERE job_id = $1
         ORDER BY created_at DESC, id DESC
         LIMIT 1`,
		jobID)

	var eval domain.Evaluation
	var action string
	var concerns []byte
	err := row.Scan(&eval.ID, &eval.JobID, &eval.FitScore, &eval.SeniorityScore,
		&eval.PnLScore, &eval.TransformationScore, &eval.IndustryScore, &eval.GeoScore,
		&action, &eval.Summary, &concerns, &eval.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest evaluation: %w", err)
	}

	eval.Action = domain.Action(action)
	if err := json.Unmarshal(concerns, &eval.Concerns); err != nil {
		return nil, fmt.Errorf("decode concerns: %w", err)
	}
	return &eval, nil
}

// UpdateReviewStatus sets the user triage state for one posting.
func (s *PostgresStore) UpdateReviewStatus(ctx context.Context, jobID int64, status domain.ReviewStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE job_postings SET user_review_status = $1 WHERE id = $2`,
		string(status), jobID)
	if err != nil {
		return fmt.Errorf("update review status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// JobStats counts active postings grouped by their latest action label.
func (s *PostgresStore) JobStats(ctx context.Context) (domain.JobStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.action, COUNT(*)
         FROM job_postings j
         JOIN LATERAL (
             SELECT action
             FROM evaluations
             WHERE job_id = j.id
             ORDER BY created_at DESC, id DESC
             LIMIT 1
         ) e ON TRUE
         WHERE j.active
         GROUP BY e.action`)
	if err != nil {
		return domain.JobStats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats domain.JobStats
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return domain.JobStats{}, fmt.Errorf("scan stats: %w", err)
		}
		switch domain.Action(action) {
		case domain.ActionApply:
			stats.Apply = count
		case domain.ActionWatch:
			stats.Watch = count
		case domain.ActionSkip:
			stats.Skip = count
		}
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.JobStats{}, fmt.Errorf("rows iteration: %w", err)
	}
	return stats, nil
}

// CountActive counts active postings under the listing filter semantics.
func (s *PostgresStore) CountActive(ctx context.Context, minAction domain.Action) (int, error) {
	builder := psql.
		Select("COUNT(*)").
		From("job_postings j").
		JoinClause(latestEvaluationJoin).
		Where(sq.Eq{"j.active": true})

	builder = filterByAction(builder, minAction)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active postings: %w", err)
	}
	return count, nil
}

func filterByAction(builder sq.SelectBuilder, minAction domain.Action) sq.SelectBuilder {
	switch minAction {
	case domain.ActionApply:
		return builder.Where(sq.Eq{"e.action": string(domain.ActionApply)})
	case domain.ActionWatch:
		return builder.Where(sq.Eq{"e.action": []string{
			string(domain.ActionApply), string(domain.ActionWatch),
		}})
	default:
		return builder
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (domain.JobPosting, error) {
	var p domain.JobPosting
	var status string
	err := row.Scan(&p.ID, &p.CompanyID, &p.CompanyName, &p.ExternalID, &p.Title,
		&p.Location, &p.Department, &p.Description, &p.URL,
		&p.DateFound, &p.LastSeenAt, &p.PartialDescription, &p.Active, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.JobPosting{}, err
		}
		return domain.JobPosting{}, fmt.Errorf("scan posting: %w", err)
	}
	p.ReviewStatus = domain.ReviewStatus(status)
	return p, nil
}

func encodeConcerns(concerns []domain.Concern) ([]byte, error) {
	if concerns == nil {
		concerns = []domain.Concern{}
	}
	encoded, err := json.Marshal(concerns)
	if err != nil {
		return nil, fmt.Errorf("encode concerns: %w", err)
	}
	return encoded, nil
}
