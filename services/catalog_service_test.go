package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"tailorshop-backend/models"
	"tailorshop-backend/storage"
	"tailorshop-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogUOMs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewCatalogService(db, nil)
	ctx := context.Background()

	meters, err := svc.AddUOM(ctx, " Meters ")
	require.NoError(t, err)
	again, err := svc.AddUOM(ctx, "Meters")
	require.NoError(t, err)
	assert.Equal(t, meters.ID, again.ID)

	_, err = svc.AddUOM(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	item := models.InventoryItem{Name: "Wool", Qty: 1, UOMID: &meters.ID}
	require.NoError(t, db.Create(&item).Error)

	require.NoError(t, svc.DeleteUOM(ctx, meters.ID))
	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Nil(t, reloaded.UOMID)

	assert.ErrorIs(t, svc.DeleteUOM(ctx, meters.ID), ErrNotFound)
}

func TestCatalogRequirementIcons(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := NewCatalogService(db, store)
	ctx := context.Background()

	req, err := svc.AddRequirement(ctx, "Pockets", textUpload("pocket icon.png", "png-bytes", ""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.Filename, "requirements/"))

	r, err := store.Get(ctx, req.Filename)
	require.NoError(t, err)
	body, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "png-bytes", string(body))

	_, err = svc.AddRequirement(ctx, "Pleats", ImageUpload{})
	assert.ErrorIs(t, err, ErrValidation)

	icons, err := svc.ListRequirements(ctx)
	require.NoError(t, err)
	assert.Len(t, icons, 1)

	require.NoError(t, svc.DeleteRequirement(ctx, req.ID))
	_, err = store.Get(ctx, req.Filename)
	assert.Error(t, err)
	assert.ErrorIs(t, svc.DeleteRequirement(ctx, req.ID), ErrNotFound)
}
