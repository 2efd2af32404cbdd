package service

import (
	"context"
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/testutil"
	"sapaa_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseAccepted(t *testing.T) {
	phrase := config.DefaultLiabilityPhrase
	cases := []struct {
		name     string
		input    string
		accepted bool
		want     bool
	}{
		{"exact phrase and terms", phrase, true, true},
		{"surrounding whitespace", "  " + phrase + "\n", true, true},
		{"phrase without terms", phrase, false, false},
		{"terms without phrase", "", true, false},
		{"wrong case", "i am not a volunteer of sapaa", true, false},
		{"partial phrase", "I am not a volunteer", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PhraseAccepted(phrase, tc.input, tc.accepted))
		})
	}
}

func TestLiabilityServiceVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	guest := testutil.SeedUser(t, f.db, "guest@example.com", model.Guest)
	steward := testutil.SeedUser(t, f.db, "steward@example.com", model.Steward)

	_, err := f.liability.Verify(ctx, guest.ID, config.DefaultLiabilityPhrase, false)
	assert.ErrorIs(t, err, util.ErrLiabilityMismatch)

	user, err := f.liability.Verify(ctx, guest.ID, config.DefaultLiabilityPhrase, true)
	require.NoError(t, err)
	assert.False(t, user.NeedsLiabilityCheck())

	stored, err := f.liability.UserRepo.FindByID(ctx, guest.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LiabilityAcceptedAt)

	bypassed, err := f.liability.Verify(ctx, steward.ID, "", false)
	require.NoError(t, err)
	assert.Nil(t, bypassed.LiabilityAcceptedAt)
}
