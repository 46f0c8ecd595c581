package careers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoleMatcher/internal/adapter"
)

func TestIsTruncated(t *testing.T) {
	long := strings.Repeat("a", 200)

	assert.True(t, isTruncated("short", 100))
	assert.False(t, isTruncated(long, 100))
	assert.True(t, isTruncated(long+" Read More", 100))
	assert.True(t, isTruncated(long+" click to view details", 100))
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://careers.example.com/search?page=1"

	assert.Equal(t, "https://careers.example.com/jobs/123", absoluteURL(base, "/jobs/123"))
	assert.Equal(t, "https://other.example.com/jobs/9", absoluteURL(base, "https://other.example.com/jobs/9"))
	assert.Equal(t, "", absoluteURL(base, ""))
}

func TestExternalIDFromURL(t *testing.T) {
	assert.Equal(t, "req-42", externalIDFromURL("https://careers.example.com/jobs/req-42"))
	assert.Equal(t, "req-42", externalIDFromURL("https://careers.example.com/jobs/req-42/"))
}

func TestSiemensFetchJobs(t *testing.T) {
	longDesc := strings.Repeat("Own the P&L for the automation division. ", 5)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs": [
			{"id": 101, "title": "VP Operations", "location": "Mexico City",
			 "description": "` + longDesc + `", "url": "https://jobs.example/101",
			 "department": "Industrial"},
			{"requisitionId": "R-7", "title": "Director of Quality", "location": "Berlin",
			 "description": "Short summary.", "applyUrl": "https://jobs.example/r-7"},
			{"id": 103, "location": "Munich", "description": "No title here.",
			 "url": "https://jobs.example/103"}
		]}`))
	}))
	defer server.Close()

	a := NewSiemensAdapter(server.Client(), nil)
	postings, err := a.FetchJobs(context.Background(), adapter.Request{
		CompanyName: "Siemens",
		CareersURL:  server.URL,
	})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "101", postings[0].ExternalID)
	assert.Equal(t, "VP Operations", postings[0].Title)
	assert.Equal(t, "Industrial", postings[0].Department)
	assert.False(t, postings[0].PartialDescription)

	assert.Equal(t, "R-7", postings[1].ExternalID)
	assert.Equal(t, "https://jobs.example/r-7", postings[1].URL)
	assert.True(t, postings[1].PartialDescription)
}

func TestSiemensFetchJobsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewSiemensAdapter(server.Client(), nil)
	_, err := a.FetchJobs(context.Background(), adapter.Request{CareersURL: server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestABBFetchJobsJSONAliases(t *testing.T) {
	longDesc := strings.Repeat("Lead the digital transformation program end to end. ", 4)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"data": [
			{"jobId": 55, "jobTitle": "VP Manufacturing", "city": "Zurich",
			 "jobDescription": "` + longDesc + `", "link": "https://abb.example/55",
			 "division": "Robotics"},
			{"requisitionId": "AB-9", "title": "Plant Director", "country": "Sweden",
			 "summary": "Brief.", "applyUrl": "https://abb.example/ab-9"}
		]}`))
	}))
	defer server.Close()

	a := NewABBAdapter(server.Client(), nil)
	postings, err := a.FetchJobs(context.Background(), adapter.Request{CareersURL: server.URL})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "55", postings[0].ExternalID)
	assert.Equal(t, "VP Manufacturing", postings[0].Title)
	assert.Equal(t, "Zurich", postings[0].Location)
	assert.Equal(t, "Robotics", postings[0].Department)
	assert.False(t, postings[0].PartialDescription)

	assert.Equal(t, "AB-9", postings[1].ExternalID)
	assert.Equal(t, "Sweden", postings[1].Location)
	assert.True(t, postings[1].PartialDescription)
}

func TestABBFetchJobsFallsBackToHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body>
			<div class="job-card" data-job-id="77">
				<h3>Operations Director</h3>
				<span class="job-location">Oslo</span>
				<p class="job-summary">Run the plant.</p>
				<a href="/careers/77">View</a>
			</div>
		</body></html>`))
	}))
	defer server.Close()

	a := NewABBAdapter(server.Client(), nil)
	postings, err := a.FetchJobs(context.Background(), adapter.Request{CareersURL: server.URL})
	require.NoError(t, err)
	require.Len(t, postings, 1)

	assert.Equal(t, "77", postings[0].ExternalID)
	assert.Equal(t, "Operations Director", postings[0].Title)
	assert.Equal(t, "Oslo", postings[0].Location)
	assert.Equal(t, server.URL+"/careers/77", postings[0].URL)
	assert.True(t, postings[0].PartialDescription)
}

func TestBoschFetchJobsParsesListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body>
			<li class="job-listing" data-id="b-1">
				<h2>Senior Director Supply Chain</h2>
				<div class="location">Stuttgart</div>
				<div class="description">Own the supply chain P&amp;L.</div>
				<a href="/jobs/b-1">Details</a>
			</li>
			<li class="job-listing">
				<h2>Automation Engineer</h2>
				<a href="/jobs/b-2">Details</a>
			</li>
			<li class="job-listing">
				<div class="description">No title, skipped.</div>
				<a href="/jobs/b-3">Details</a>
			</li>
		</body></html>`))
	}))
	defer server.Close()

	a := NewBoschAdapter(server.Client(), nil)
	postings, err := a.FetchJobs(context.Background(), adapter.Request{CareersURL: server.URL})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first := postings[0]
	assert.Equal(t, "b-1", first.ExternalID)
	assert.Equal(t, "Senior Director Supply Chain", first.Title)
	assert.Equal(t, "Stuttgart", first.Location)
	assert.Equal(t, "Own the supply chain P&L.", first.Description)
	assert.Equal(t, server.URL+"/jobs/b-1", first.URL)
	assert.True(t, first.PartialDescription)

	second := postings[1]
	assert.Equal(t, "b-2", second.ExternalID)
	assert.Equal(t, "Not specified", second.Location)
	// no summary element, the title stands in
	assert.Equal(t, "Automation Engineer", second.Description)
}

func TestBoschFetchJobsEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p>No openings right now.</p></body></html>`))
	}))
	defer server.Close()

	a := NewBoschAdapter(server.Client(), nil)
	postings, err := a.FetchJobs(context.Background(), adapter.Request{CareersURL: server.URL})
	require.NoError(t, err)
	assert.Empty(t, postings)
}
