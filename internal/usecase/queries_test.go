package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoleMatcher/internal/domain"
)

type listingStore struct {
	*fakeStore
	lastAction domain.Action
	lastLimit  int
	lastOffset int

	reviewCalls    int
	lastReviewID   int64
	lastReviewStat domain.ReviewStatus
}

func (l *listingStore) ActiveWithLatestEvaluation(_ context.Context, minAction domain.Action, limit, offset int) ([]domain.JobOverview, error) {
	l.lastAction = minAction
	l.lastLimit = limit
	l.lastOffset = offset
	return nil, nil
}

func (l *listingStore) UpdateReviewStatus(_ context.Context, id int64, status domain.ReviewStatus) error {
	l.reviewCalls++
	l.lastReviewID = id
	l.lastReviewStat = status
	return nil
}

func (l *listingStore) JobByID(_ context.Context, id int64) (domain.JobPosting, error) {
	if posting, ok := l.postings[id]; ok {
		return posting, nil
	}
	return domain.JobPosting{}, domain.ErrJobNotFound
}

func (l *listingStore) LatestEvaluation(_ context.Context, jobID int64) (*domain.Evaluation, error) {
	if jobID == 101 {
		return &domain.Evaluation{JobID: 101, FitScore: 82, Action: domain.ActionApply, CreatedAt: time.Now()}, nil
	}
	return nil, nil
}

func TestActiveJobsClampsPagination(t *testing.T) {
	store := &listingStore{fakeStore: newFakeStore()}
	queries := NewQueries(store, nil)

	cases := []struct {
		name             string
		limit, offset    int
		wantLim, wantOff int
	}{
		{"defaults", 0, 0, 50, 0},
		{"negative offset", 10, -5, 10, 0},
		{"cap", 1000, 20, 200, 20},
		{"passthrough", 25, 75, 25, 75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := queries.ActiveJobs(context.Background(), domain.ActionWatch, tc.limit, tc.offset)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLim, store.lastLimit)
			assert.Equal(t, tc.wantOff, store.lastOffset)
			assert.Equal(t, domain.ActionWatch, store.lastAction)
		})
	}
}

func TestSetReviewStatusRejectsUnknownValues(t *testing.T) {
	store := &listingStore{fakeStore: newFakeStore()}
	queries := NewQueries(store, nil)

	err := queries.SetReviewStatus(context.Background(), 1, domain.ReviewStatus("ARCHIVED"))
	assert.ErrorIs(t, err, domain.ErrInvalidReviewStatus)
	assert.Zero(t, store.reviewCalls)
}

func TestSetReviewStatusPassesValidValues(t *testing.T) {
	store := &listingStore{fakeStore: newFakeStore()}
	queries := NewQueries(store, nil)

	for _, status := range []domain.ReviewStatus{domain.ReviewNew, domain.ReviewRead, domain.ReviewIgnored} {
		require.NoError(t, queries.SetReviewStatus(context.Background(), 7, status))
		assert.Equal(t, status, store.lastReviewStat)
		assert.Equal(t, int64(7), store.lastReviewID)
	}
	assert.Equal(t, 3, store.reviewCalls)
}

func TestJobDetailsReturnsNilEvaluationWhenUnscored(t *testing.T) {
	store := &listingStore{fakeStore: newFakeStore()}
	store.postings[101] = domain.JobPosting{ID: 101, Title: "VP Operations"}
	store.postings[102] = domain.JobPosting{ID: 102, Title: "Director of Quality"}
	queries := NewQueries(store, nil)

	posting, eval, err := queries.JobDetails(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, "VP Operations", posting.Title)
	require.NotNil(t, eval)
	assert.Equal(t, 82, eval.FitScore)

	posting, eval, err = queries.JobDetails(context.Background(), 102)
	require.NoError(t, err)
	assert.Equal(t, "Director of Quality", posting.Title)
	assert.Nil(t, eval)
}

func TestJobDetailsUnknownID(t *testing.T) {
	store := &listingStore{fakeStore: newFakeStore()}
	queries := NewQueries(store, nil)

	_, _, err := queries.JobDetails(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
