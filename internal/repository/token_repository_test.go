package repository

import (
	"context"
	"sapaa_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepositoryRevoke(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	repo := NewTokenRepository(rdb)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "abc", time.Minute))
	revoked, err = repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(time.Minute + time.Second)
	revoked, err = repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "expired", 0))
	assert.False(t, mr.Exists("token-revoked-expired"))
}
