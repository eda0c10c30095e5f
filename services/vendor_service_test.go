package services

import (
	"context"
	"testing"

	"tailorshop-backend/models"
	"tailorshop-backend/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorPurchases(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVendorService(db, NewCodeGenerator(db))
	ctx := context.Background()

	vendor, err := svc.Create(ctx, VendorInput{Name: " Mehta Textiles ", Phone: "555-0300"})
	require.NoError(t, err)
	assert.Equal(t, "VND0001", vendor.VendorCode)
	assert.Equal(t, "Mehta Textiles", vendor.Name)
	assert.Nil(t, vendor.Email)

	purchases, err := svc.AddPurchases(ctx, vendor.ID, []PurchaseLine{
		{MaterialName: "Cotton", Qty: decimal.RequireFromString("2.5"), UnitPrice: decimal.NewFromInt(120)},
		{MaterialName: "  "},
		{MaterialName: "Lining", Qty: decimal.NewFromInt(4), UnitPrice: decimal.RequireFromString("35.25")},
	})
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.True(t, purchases[0].TotalPrice.Equal(decimal.NewFromInt(300)))
	assert.True(t, purchases[1].TotalPrice.Equal(decimal.NewFromInt(141)))

	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].Spent.Equal(decimal.NewFromInt(441)), summaries[0].Spent.String())
	assert.NotNil(t, summaries[0].LastOrderAt)

	updated, err := svc.UpdatePurchase(ctx, purchases[0].ID, vendor.ID, PurchaseLine{
		MaterialName: "Cotton",
		Qty:          decimal.NewFromInt(3),
		UnitPrice:    decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(300)))
}

func TestVendorPurchaseValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVendorService(db, NewCodeGenerator(db))
	ctx := context.Background()

	_, err := svc.Create(ctx, VendorInput{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddPurchases(ctx, 0, []PurchaseLine{{MaterialName: "Cotton"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddPurchases(ctx, 42, []PurchaseLine{{MaterialName: "Cotton"}})
	assert.ErrorIs(t, err, ErrValidation)

	vendor, err := svc.Create(ctx, VendorInput{Name: "Mehta"})
	require.NoError(t, err)
	_, err = svc.AddPurchases(ctx, vendor.ID, []PurchaseLine{{MaterialName: ""}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVendorDeleteCascadesPurchases(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewVendorService(db, NewCodeGenerator(db))
	ctx := context.Background()

	vendor, err := svc.Create(ctx, VendorInput{Name: "Mehta"})
	require.NoError(t, err)
	_, err = svc.AddPurchases(ctx, vendor.ID, []PurchaseLine{{MaterialName: "Cotton", Qty: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, vendor.ID))
	var count int64
	require.NoError(t, db.Model(&models.VendorPurchase{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(ctx, vendor.ID), ErrNotFound)
	assert.ErrorIs(t, svc.DeletePurchase(ctx, 1), ErrNotFound)
}
