package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krampus/internal/model"
)

func sampleStaff(username string, role model.Role) *model.Staff {
	return &model.Staff{
		Name:         "Lucy Westenra",
		Username:     username,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Role:         role,
		Permissions:  model.PermissionsFor(role),
	}
}

func TestCreateStaff(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := sampleStaff("lucy", model.RoleStaff)
	require.NoError(t, db.CreateStaff(ctx, s))
	require.NotEmpty(t, s.ID)

	got, err := db.GetStaffByUsername(ctx, "lucy")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, model.RoleStaff, got.Role)
	assert.Equal(t, []string{model.PermReservations, model.PermEconomics}, got.Permissions)

	t.Run("DuplicateUsername", func(t *testing.T) {
		dup := sampleStaff("lucy", model.RoleArtist)
		assert.ErrorIs(t, db.CreateStaff(ctx, dup), ErrUsernameTaken)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		_, err := db.GetStaffByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateStaff(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := sampleStaff("jonathan", model.RoleArtist)
	require.NoError(t, db.CreateStaff(ctx, s))

	t.Run("RoleChangeRewritesPermissions", func(t *testing.T) {
		role := model.RoleAdmin
		err := db.UpdateStaff(ctx, s.ID, nil, nil, nil, &role, model.PermissionsFor(role))
		require.NoError(t, err)

		got, err := db.GetStaff(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, got.Role)
		assert.ElementsMatch(t,
			[]string{model.PermReservations, model.PermStaff, model.PermEconomics},
			got.Permissions)
	})

	t.Run("NameOnlyLeavesRest", func(t *testing.T) {
		err := db.UpdateStaff(ctx, s.ID, ptr("Jonathan H."), nil, nil, nil, nil)
		require.NoError(t, err)

		got, err := db.GetStaff(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jonathan H.", got.Name)
		assert.Equal(t, "jonathan", got.Username)
		assert.Equal(t, model.RoleAdmin, got.Role)
	})

	t.Run("UnknownID", func(t *testing.T) {
		err := db.UpdateStaff(ctx, "no-such-id", ptr("x"), nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteStaff(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := sampleStaff("arthur", model.RoleStaff)
	require.NoError(t, db.CreateStaff(ctx, s))
	require.NoError(t, db.DeleteStaff(ctx, s.ID))

	_, err := db.GetStaff(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteStaff(ctx, s.ID), ErrNotFound)
}

func TestListStaffOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateStaff(ctx, sampleStaff("first", model.RoleAdmin)))
	require.NoError(t, db.CreateStaff(ctx, sampleStaff("second", model.RoleArtist)))

	list, err := db.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Username)
	assert.Equal(t, "second", list[1].Username)
}
