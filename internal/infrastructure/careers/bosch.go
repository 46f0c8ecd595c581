package careers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RoleMatcher/internal/adapter"
	"RoleMatcher/internal/domain"
)

// BoschAdapter scrapes the Bosch careers listing page. Listings only carry
// summaries, so every posting is flagged as partial.
type BoschAdapter struct {
	client *http.Client
	logger *slog.Logger
}

var _ adapter.Adapter = (*BoschAdapter)(nil)

// NewBoschAdapter wires an HTTP client; a nil client gets a 20s timeout.
func NewBoschAdapter(client *http.Client, logger *slog.Logger) *BoschAdapter {
	if client == nil {
		client = &http.Client{Timeout: adapterHTTPTimeout}
	}
	return &BoschAdapter{client: client, logger: logger}
}

// Name identifies the adapter inside the registry.
func (a *BoschAdapter) Name() string {
	return "bosch"
}

// FetchJobs scrapes the careers page and extracts one posting per listing
// element.
func (a *BoschAdapter) FetchJobs(ctx context.Context, req adapter.Request) ([]domain.RawJobPosting, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.CareersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request careers page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("careers page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse careers page: %w", err)
	}

	postings := parseJobListings(doc, req.CareersURL)
	a.debug("fetched postings", "company", req.CompanyName, "count", len(postings))
	return postings, nil
}

// parseJobListings walks elements whose class mentions "job" and pulls
// title, location, link, and summary out of common listing markup.
func parseJobListings(doc *goquery.Document, careersURL string) []domain.RawJobPosting {
	var postings []domain.RawJobPosting

	doc.Find("div[class*=job], article[class*=job], li[class*=job]").Each(func(_ int, elem *goquery.Selection) {
		title := strings.TrimSpace(elem.Find("h2, h3, [class*=title]").First().Text())

		location := strings.TrimSpace(elem.Find("[class*=location]").First().Text())
		if location == "" {
			location = "Not specified"
		}

		href, _ := elem.Find("a[href]").First().Attr("href")
		link := absoluteURL(careersURL, href)

		externalID, ok := elem.Attr("data-job-id")
		if !ok || externalID == "" {
			externalID, _ = elem.Attr("data-id")
		}
		if externalID == "" && link != "" {
			externalID = externalIDFromURL(link)
		}

		description := strings.TrimSpace(elem.Find("[class*=description], [class*=summary], [class*=excerpt]").First().Text())
		if description == "" {
			description = title
		}

		if externalID == "" || title == "" || link == "" {
			return
		}

		postings = append(postings, domain.RawJobPosting{
			ExternalID:  externalID,
			Title:       title,
			Location:    location,
			Description: description,
			URL:         link,
			// listing pages only show summaries
			PartialDescription: true,
		})
	})

	return postings
}

func (a *BoschAdapter) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
