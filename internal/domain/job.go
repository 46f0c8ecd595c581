package domain

import "time"

// FetchStatus reflects the outcome of the last scrape attempt for a company.
type FetchStatus string

const (
	FetchOK    FetchStatus = "OK"
	FetchError FetchStatus = "ERROR"
)

// ReviewStatus is the user-controlled triage state of a posting. Reconciliation
// never touches it.
type ReviewStatus string

const (
	ReviewNew     ReviewStatus = "NEW"
	ReviewRead    ReviewStatus = "READ"
	ReviewIgnored ReviewStatus = "IGNORED"
)

// Valid reports whether the value is one of the three allowed statuses.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewNew, ReviewRead, ReviewIgnored:
		return true
	}
	return false
}

// Action is the three-way verdict derived from the fit score.
type Action string

const (
	ActionApply Action = "APPLY"
	ActionWatch Action = "WATCH"
	ActionSkip  Action = "SKIP"
)

// Company is a monitored careers system with its observed health state.
type Company struct {
	ID           int64
	Name         string
	CareersURL   string
	Adapter      string
	FetchStatus  FetchStatus
	ErrorMessage string
	LastFetched  time.Time
}

// RawJobPosting is the unvalidated adapter output, consumed immediately by the
// store and never persisted as-is.
type RawJobPosting struct {
	ExternalID         string
	Title              string
	Location           string
	Department         string
	Description        string
	URL                string
	PartialDescription bool
}

// JobPosting is the persisted, deduplicated representation of one posting.
// Identity is (CompanyID, ExternalID).
type JobPosting struct {
	ID                 int64
	CompanyID          int64
	CompanyName        string
	ExternalID         string
	Title              string
	Location           string
	Department         string
	Description        string
	URL                string
	DateFound          time.Time
	LastSeenAt         time.Time
	PartialDescription bool
	Active             bool
	ReviewStatus       ReviewStatus
}

// Concern is one machine-generated objection attached to an evaluation.
type Concern struct {
	Type     string `json:"type"`
	Evidence string `json:"evidence"`
}

// Evaluation is one immutable scored snapshot of a posting. At most the three
// most recent evaluations per posting are retained.
type Evaluation struct {
	ID                  int64
	JobID               int64
	FitScore            int
	SeniorityScore      int
	PnLScore            int
	TransformationScore int
	IndustryScore       int
	GeoScore            int
	Action              Action
	Summary             string
	Concerns            []Concern
	CreatedAt           time.Time
}

// JobOverview is the listing row returned to callers: the posting joined to
// its most recent evaluation only. Evaluation fields are zero when the posting
// has not been scored yet.
type JobOverview struct {
	ID           int64
	Title        string
	CompanyName  string
	Location     string
	URL          string
	ReviewStatus ReviewStatus
	FitScore     int
	Action       Action
	Summary      string
}

// SyncResult reports what one company's reconciliation changed.
type SyncResult struct {
	NewCount      int
	UpdatedCount  int
	TouchedJobIDs []int64
}

// CompanyResult is the per-company outcome of one refresh cycle.
type CompanyResult struct {
	CompanyID     int64
	CompanyName   string
	Status        FetchStatus
	ErrorMessage  string
	NewCount      int
	UpdatedCount  int
	TouchedJobIDs []int64
}

// RefreshSummary aggregates a whole refresh cycle. Ordering of Companies and
// TouchedJobIDs follows concurrent completion and carries no meaning.
type RefreshSummary struct {
	Companies     []CompanyResult
	TouchedJobIDs []int64
	Duration      time.Duration
}

// JobStats counts active postings grouped by their latest action label.
type JobStats struct {
	Apply int
	Watch int
	Skip  int
	Total int
}
