package service

import (
	"context"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/testutil"
	"sapaa_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceAdminCannotLockThemselvesOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, f.db, "admin@example.com", model.Admin)

	guest := model.Guest
	_, err := f.users.UpdateUser(ctx, admin.ID, admin.ID, UpdateUserRequest{Role: &guest})
	assert.ErrorIs(t, err, util.ErrCannotModifySelf)

	_, err = f.users.DisableUser(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, util.ErrCannotModifySelf)

	assert.ErrorIs(t, f.users.DeleteUser(ctx, admin.ID, admin.ID), util.ErrCannotModifySelf)

	name := "Head Admin"
	updated, err := f.users.UpdateUser(ctx, admin.ID, admin.ID, UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Head Admin", updated.Name)
}

func TestUserServiceManagesOtherAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, f.db, "admin@example.com", model.Admin)
	guest := testutil.SeedUser(t, f.db, "guest@example.com", model.Guest)

	steward := model.Steward
	updated, err := f.users.UpdateUser(ctx, admin.ID, guest.ID, UpdateUserRequest{Role: &steward})
	require.NoError(t, err)
	assert.Equal(t, model.Steward, updated.Role)

	bogus := model.UserRole("owner")
	_, err = f.users.UpdateUser(ctx, admin.ID, guest.ID, UpdateUserRequest{Role: &bogus})
	assert.ErrorIs(t, err, util.ErrInvalidRole)

	disabled, err := f.users.DisableUser(ctx, admin.ID, guest.ID)
	require.NoError(t, err)
	assert.True(t, disabled.Disabled)

	page, err := f.users.GetUsers(ctx, 1, 10, repository.UserFilter{Role: model.Steward})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	require.NoError(t, f.users.DeleteUser(ctx, admin.ID, guest.ID))
	_, err = f.users.GetUserByID(ctx, guest.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.ErrorIs(t, f.users.DeleteUser(ctx, admin.ID, guest.ID), util.ErrUserNotFound)
}
