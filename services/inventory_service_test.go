package services

import (
	"context"
	"testing"

	"tailorshop-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryCreateBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewInventoryService(db, NewCodeGenerator(db))
	ctx := context.Background()

	items, err := svc.CreateBatch(ctx, []InventoryRow{
		{Name: "Italian Wool", Supplier: "Mehta", Qty: 12},
		{Name: " "},
		{Name: "Linen", Qty: 3},
		{Name: "Italian Silk", Qty: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "ITA-001", *items[0].InventoryCode)
	assert.Equal(t, "LIN-001", *items[1].InventoryCode)
	assert.Equal(t, "ITA-002", *items[2].InventoryCode)
	assert.Nil(t, items[1].Supplier)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Italian Silk", listed[0].Name)

	_, err = svc.CreateBatch(ctx, []InventoryRow{{Name: ""}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInventoryUpdateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewInventoryService(db, NewCodeGenerator(db))
	ctx := context.Background()

	items, err := svc.CreateBatch(ctx, []InventoryRow{{Name: "Wool", Qty: 5}, {Name: "Linen", Qty: 2}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, items[1].ID, InventoryUpdate{Name: "Linen", Qty: 9})
	require.NoError(t, err)
	assert.Equal(t, "LIN-001", *updated.InventoryCode)
	assert.Equal(t, 9, updated.Qty)

	custom := "LIN-900"
	updated, err = svc.Update(ctx, items[1].ID, InventoryUpdate{Name: "Linen", Qty: 9, Code: &custom})
	require.NoError(t, err)
	assert.Equal(t, "LIN-900", *updated.InventoryCode)

	taken := "WOO-001"
	_, err = svc.Update(ctx, items[1].ID, InventoryUpdate{Name: "Linen", Code: &taken})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, items[1].ID, InventoryUpdate{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, 999, InventoryUpdate{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewInventoryService(db, NewCodeGenerator(db))
	ctx := context.Background()

	items, err := svc.CreateBatch(ctx, []InventoryRow{{Name: "Wool"}})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, items[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, items[0].ID), ErrNotFound)

	_, err = svc.Get(ctx, items[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
