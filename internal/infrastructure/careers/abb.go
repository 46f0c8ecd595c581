package careers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RoleMatcher/internal/adapter"
	"RoleMatcher/internal/domain"
)

// ABBAdapter fetches postings from the ABB careers system, which answers with
// JSON on some endpoints and server-rendered HTML on others. The response
// content type decides the parser.
type ABBAdapter struct {
	client *http.Client
	logger *slog.Logger
}

var _ adapter.Adapter = (*ABBAdapter)(nil)

// NewABBAdapter wires an HTTP client; a nil client gets a 20s timeout.
func NewABBAdapter(client *http.Client, logger *slog.Logger) *ABBAdapter {
	if client == nil {
		client = &http.Client{Timeout: adapterHTTPTimeout}
	}
	return &ABBAdapter{client: client, logger: logger}
}

// Name identifies the adapter inside the registry.
func (a *ABBAdapter) Name() string {
	return "abb"
}

// abbJob covers the field aliases seen across ABB endpoint versions.
type abbJob struct {
	ID             json.Number `json:"id"`
	JobID          json.Number `json:"jobId"`
	RequisitionID  string      `json:"requisitionId"`
	Title          string      `json:"title"`
	JobTitle       string      `json:"jobTitle"`
	Location       string      `json:"location"`
	City           string      `json:"city"`
	Country        string      `json:"country"`
	Description    string      `json:"description"`
	JobDescription string      `json:"jobDescription"`
	Summary        string      `json:"summary"`
	URL            string      `json:"url"`
	Link           string      `json:"link"`
	ApplyURL       string      `json:"applyUrl"`
	Department     string      `json:"department"`
	Division       string      `json:"division"`
}

type abbResponse struct {
	Jobs    []abbJob `json:"jobs"`
	Data    []abbJob `json:"data"`
	Results []abbJob `json:"results"`
}

// FetchJobs fetches the careers endpoint and parses JSON or HTML depending on
// the response content type.
func (a *ABBAdapter) FetchJobs(ctx context.Context, req adapter.Request) ([]domain.RawJobPosting, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.CareersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json, text/html")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request careers endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("careers endpoint returned %s", resp.Status)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var payload abbResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		postings := a.fromJSON(payload)
		a.debug("fetched postings", "company", req.CompanyName, "count", len(postings), "format", "json")
		return postings, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse careers page: %w", err)
	}
	postings := parseJobListings(doc, req.CareersURL)
	a.debug("fetched postings", "company", req.CompanyName, "count", len(postings), "format", "html")
	return postings, nil
}

func (a *ABBAdapter) fromJSON(payload abbResponse) []domain.RawJobPosting {
	listings := payload.Jobs
	if len(listings) == 0 {
		listings = payload.Data
	}
	if len(listings) == 0 {
		listings = payload.Results
	}

	postings := make([]domain.RawJobPosting, 0, len(listings))
	for _, job := range listings {
		externalID := firstNonEmpty(job.ID.String(), job.JobID.String(), job.RequisitionID)
		title := firstNonEmpty(job.Title, job.JobTitle)
		location := firstNonEmpty(job.Location, job.City, job.Country)
		description := firstNonEmpty(job.Description, job.JobDescription, job.Summary)
		link := firstNonEmpty(job.URL, job.Link, job.ApplyURL)

		if externalID == "" || title == "" || location == "" || description == "" || link == "" {
			a.warn("skipping posting with missing fields", "id", externalID, "title", title)
			continue
		}

		postings = append(postings, domain.RawJobPosting{
			ExternalID:         externalID,
			Title:              title,
			Location:           location,
			Department:         firstNonEmpty(job.Department, job.Division),
			Description:        description,
			URL:                link,
			PartialDescription: isTruncated(description, 150),
		})
	}
	return postings
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (a *ABBAdapter) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *ABBAdapter) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
