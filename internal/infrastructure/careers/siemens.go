package careers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"RoleMatcher/internal/adapter"
	"RoleMatcher/internal/domain"
)

// SiemensAdapter fetches postings from the Siemens careers JSON API.
type SiemensAdapter struct {
	client *http.Client
	logger *slog.Logger
}

var _ adapter.Adapter = (*SiemensAdapter)(nil)

// NewSiemensAdapter wires an HTTP client; a nil client gets a 20s timeout.
func NewSiemensAdapter(client *http.Client, logger *slog.Logger) *SiemensAdapter {
	if client == nil {
		client = &http.Client{Timeout: adapterHTTPTimeout}
	}
	return &SiemensAdapter{client: client, logger: logger}
}

// Name identifies the adapter inside the registry.
func (a *SiemensAdapter) Name() string {
	return "siemens"
}

// siemensJob mirrors the fields the API exposes per posting. RequisitionID
// backs up ID since postings carry one or the other.
type siemensJob struct {
	ID            json.Number `json:"id"`
	RequisitionID string      `json:"requisitionId"`
	Title         string      `json:"title"`
	Location      string      `json:"location"`
	Description   string      `json:"description"`
	URL           string      `json:"url"`
	ApplyURL      string      `json:"applyUrl"`
	Department    string      `json:"department"`
}

type siemensResponse struct {
	Jobs []siemensJob `json:"jobs"`
}

// FetchJobs pulls the posting list from the careers API.
func (a *SiemensAdapter) FetchJobs(ctx context.Context, req adapter.Request) ([]domain.RawJobPosting, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.CareersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request careers api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("careers api returned %s", resp.Status)
	}

	var payload siemensResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	postings := make([]domain.RawJobPosting, 0, len(payload.Jobs))
	for _, job := range payload.Jobs {
		externalID := job.ID.String()
		if externalID == "" {
			externalID = job.RequisitionID
		}
		url := job.URL
		if url == "" {
			url = job.ApplyURL
		}

		if externalID == "" || job.Title == "" || job.Location == "" || job.Description == "" || url == "" {
			a.warn("skipping posting with missing fields", "id", externalID, "title", job.Title)
			continue
		}

		postings = append(postings, domain.RawJobPosting{
			ExternalID:         externalID,
			Title:              job.Title,
			Location:           job.Location,
			Department:         job.Department,
			Description:        job.Description,
			URL:                url,
			PartialDescription: isTruncated(job.Description, 100),
		})
	}

	a.debug("fetched postings", "company", req.CompanyName, "count", len(postings))
	return postings, nil
}

func (a *SiemensAdapter) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *SiemensAdapter) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
