package service

import (
	"context"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/testutil"
	"sapaa_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketByMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC), // outside the window
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	buckets := BucketByMonth(times, now, 12)
	require.Len(t, buckets, 12)
	assert.Equal(t, MonthCount{Month: "2025-04", Reports: 1}, buckets[0])
	assert.Equal(t, MonthCount{Month: "2026-01", Reports: 1}, buckets[9])
	assert.Equal(t, MonthCount{Month: "2026-03", Reports: 2}, buckets[11])
}

func TestDashboardAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, f.db, "s@example.com", model.Steward)
	f.fillRequired(t, user.ID)
	_, err := f.insp.Submit(ctx, user.ID, f.site.ID, nil)
	require.NoError(t, err)

	d, err := f.dashboard.GetDashboard(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, DashboardTotals{Sites: 1, Users: 1, Reports: 1, Observations: 2}, d.Totals)
	require.Len(t, d.TopSites, 1)
	assert.Equal(t, "Wagner", d.TopSites[0].SiteName)
	assert.Equal(t, 1, d.Monthly[len(d.Monthly)-1].Reports)

	dist, err := f.dashboard.QuestionDistribution(ctx, f.questions[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []repository.AnswerCount{
		{Value: "Good", Count: 1},
		{Value: "Fair", Count: 0},
		{Value: "Poor", Count: 0},
	}, dist.Answers)

	_, err = f.dashboard.QuestionDistribution(ctx, f.questions[3].ID)
	assert.ErrorIs(t, err, ErrNotChoiceQuestion)

	_, err = f.dashboard.QuestionDistribution(ctx, 999)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
