package repository

import (
	"context"
	"errors"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestQuestionRepositoryListActiveOrdersByID(t *testing.T) {
	db := testutil.NewDB(t)
	seeded := testutil.SeedForm(t, db)
	require.NoError(t, db.Model(&model.Question{}).Where("id = ?", seeded[1].ID).Update("is_active", false).Error)

	repo := NewQuestionRepository(db)
	questions, err := repo.ListActive(context.Background())
	require.NoError(t, err)

	var ids []uint
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []uint{seeded[0].ID, seeded[2].ID, seeded[3].ID}, ids)
	assert.Equal(t, []string{"Hiking", "Camping", "Dumping"}, questions[1].Answers)
}

func TestQuestionRepositoryFindRouting(t *testing.T) {
	db := testutil.NewDB(t)
	seeded := testutil.SeedForm(t, db)
	repo := NewQuestionRepository(db)

	flags, err := repo.FindRouting(context.Background(), []uint{seeded[0].ID, seeded[3].ID})
	require.NoError(t, err)
	require.Len(t, flags, 2)

	byID := map[uint]model.Question{}
	for _, q := range flags {
		byID[q.ID] = q
	}
	assert.True(t, byID[seeded[0].ID].ObsValue)
	assert.True(t, byID[seeded[3].ID].ObsComm)
	assert.False(t, byID[seeded[3].ID].ObsValue)

	none, err := repo.FindRouting(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInspectionRepositoryTransactionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	site := testutil.SeedSite(t, db, "Wagner")
	user := testutil.SeedUser(t, db, "a@example.com", model.Steward)
	repo := NewInspectionRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *InspectionRepository) error {
		report := &model.InspectionReport{SiteID: site.ID, UserID: user.ID}
		require.NoError(t, tx.CreateReport(ctx, report))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := repo.CountReports(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInspectionRepositoryFindReport(t *testing.T) {
	db := testutil.NewDB(t)
	site := testutil.SeedSite(t, db, "Wagner")
	user := testutil.SeedUser(t, db, "a@example.com", model.Steward)
	repo := NewInspectionRepository(db)
	ctx := context.Background()

	report := &model.InspectionReport{SiteID: site.ID, UserID: user.ID}
	require.NoError(t, repo.CreateReport(ctx, report))
	require.NoError(t, repo.CreateObservations(ctx, []model.Observation{
		{ReportID: report.ID, QuestionID: 3, ObsValue: strPtr("Hiking")},
		{ReportID: report.ID, QuestionID: 1, ObsValue: strPtr("2024-05-01")},
		{ReportID: report.ID, QuestionID: 4, ObsComm: strPtr("quiet day")},
	}))

	found, err := repo.FindReport(ctx, report.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Site)
	assert.Equal(t, "Wagner", found.Site.Name)
	require.Len(t, found.Observations, 3)
	assert.Equal(t, uint(1), found.Observations[0].QuestionID)
	assert.Nil(t, found.Observations[2].ObsValue)

	obs, err := repo.CountObservations(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, obs)
}

func TestInspectionRepositoryAggregates(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.SeedSite(t, db, "Aspen Flats")
	b := testutil.SeedSite(t, db, "Birch Bay")
	user := testutil.SeedUser(t, db, "a@example.com", model.Steward)
	repo := NewInspectionRepository(db)
	ctx := context.Background()

	for _, siteID := range []uint{a.ID, b.ID, b.ID} {
		report := &model.InspectionReport{SiteID: siteID, UserID: user.ID}
		require.NoError(t, repo.CreateReport(ctx, report))
		require.NoError(t, repo.CreateObservations(ctx, []model.Observation{
			{ReportID: report.ID, QuestionID: 2, ObsValue: strPtr("Good")},
		}))
	}

	top, err := repo.TopSites(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, SiteReportCount{SiteID: b.ID, SiteName: "Birch Bay", Reports: 2}, top[0])

	dist, err := repo.AnswerDistribution(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []AnswerCount{{Value: "Good", Count: 3}}, dist)

	times, err := repo.ReportTimesSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, times, 3)

	reports, total, err := repo.ListBySite(ctx, b.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, reports, 2)
	require.NotNil(t, reports[0].User)
	assert.Equal(t, user.Name, reports[0].User.Name)
	assert.Empty(t, reports[0].User.Email, "site listings do not carry the submitter's email")
}
