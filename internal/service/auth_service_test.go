package service

import (
	"context"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/util"
	"sapaa_backend/pkg/authstate"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var events []authstate.EventType
	unsubscribe := f.events.Subscribe(func(e authstate.Event) { events = append(events, e.Type) })
	defer unsubscribe()

	user, err := f.auth.Register(ctx, "Sam", " Sam@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, model.Guest, user.Role)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.NotEqual(t, "hunter22", user.Password)

	_, err = f.auth.Register(ctx, "Sam", "sam@example.com", "other")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, _, err = f.auth.Login(ctx, "sam@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = f.auth.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	token, _, err := f.auth.Login(ctx, "SAM@example.com", "hunter22")
	require.NoError(t, err)
	claims, err := util.ParseJWT(token, f.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	require.NoError(t, f.auth.Logout(ctx, claims))
	revoked, err := f.auth.Tokens.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Equal(t, []authstate.EventType{authstate.Registered, authstate.SignedIn, authstate.SignedOut}, events)
}

func TestAuthServiceRejectsDisabledAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, "Sam", "sam@example.com", "hunter22")
	require.NoError(t, err)
	user.Disabled = true
	require.NoError(t, f.auth.UserRepo.Update(ctx, user))

	_, _, err = f.auth.Login(ctx, "sam@example.com", "hunter22")
	assert.ErrorIs(t, err, util.ErrAccountDisabled)
}
