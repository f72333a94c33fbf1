package services

import (
	"context"
	"errors"
	"testing"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDesignation(t *testing.T) {
	store := &memorySettingsStore{}
	svc := NewSettingsService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateDesignation(ctx, "  Site   Engineer ")
	require.NoError(t, err)
	assert.Equal(t, "Site Engineer", created.Name)
	assert.Equal(t, "site engineer", created.NameKey)
	assert.False(t, created.ID.IsZero())

	_, err = svc.CreateDesignation(ctx, "SITE ENGINEER")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateDesignation(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, err := svc.ListDesignations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteDesignation(t *testing.T) {
	store := &memorySettingsStore{}
	svc := NewSettingsService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateDesignation(ctx, "Accountant")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDesignation(ctx, created.ID.Hex()))
	assert.ErrorIs(t, svc.DeleteDesignation(ctx, created.ID.Hex()), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteDesignation(ctx, "not-an-id"), ErrInvalidInput)
}

func TestListDesignationsEmpty(t *testing.T) {
	list, err := NewSettingsService(&memorySettingsStore{}, nil).ListDesignations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDisplayMode(t *testing.T) {
	store := &memorySettingsStore{}
	svc := NewSettingsService(store, nil)
	ctx := context.Background()

	current, err := svc.DisplayMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DisplayModeTable, current.Mode)

	saved, err := svc.SetDisplayMode(ctx, " Card ")
	require.NoError(t, err)
	assert.Equal(t, models.DisplayModeCard, saved.Mode)

	current, err = svc.DisplayMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DisplayModeCard, current.Mode)

	_, err = svc.SetDisplayMode(ctx, "grid")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettingsStoreFailure(t *testing.T) {
	svc := NewSettingsService(&memorySettingsStore{err: errors.New("socket closed")}, nil)
	ctx := context.Background()

	_, err := svc.ListDesignations(ctx)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	_, err = svc.CreateDesignation(ctx, "Driver")
	assert.ErrorIs(t, err, ErrDataUnavailable)
	_, err = svc.DisplayMode(ctx)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}
