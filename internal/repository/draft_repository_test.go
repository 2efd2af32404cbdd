package repository

import (
	"context"
	"sapaa_backend/internal/inspection"
	"sapaa_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRepositoryRoundTrip(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	repo := NewDraftRepository(rdb, time.Hour)
	ctx := context.Background()
	key := inspection.DraftKey{UserID: 7, SiteID: 3}

	_, err := repo.Load(ctx, key)
	assert.ErrorIs(t, err, inspection.ErrNoDraft)

	require.NoError(t, repo.Save(ctx, key, []byte(`{"1":"Good"}`)))
	assert.True(t, mr.Exists("inspection-draft-7-3"))
	assert.Equal(t, time.Hour, mr.TTL("inspection-draft-7-3"))

	data, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":"Good"}`, string(data))

	require.NoError(t, repo.Delete(ctx, key))
	assert.False(t, mr.Exists("inspection-draft-7-3"))
}

func TestDraftRepositoryExpires(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	repo := NewDraftRepository(rdb, time.Minute)
	ctx := context.Background()
	key := inspection.DraftKey{UserID: 1, SiteID: 1}

	require.NoError(t, repo.Save(ctx, key, []byte(`{}`)))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Load(ctx, key)
	assert.ErrorIs(t, err, inspection.ErrNoDraft)
}

func TestDraftRepositoryKeysArePerUserAndSite(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	repo := NewDraftRepository(rdb, 0)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, inspection.DraftKey{UserID: 1, SiteID: 2}, []byte(`{"1":"a"}`)))

	_, err := repo.Load(ctx, inspection.DraftKey{UserID: 2, SiteID: 1})
	assert.ErrorIs(t, err, inspection.ErrNoDraft)
}
