package services

import (
	"context"
	"testing"

	"tailorshop-backend/models"
	"tailorshop-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveFieldKey(t *testing.T) {
	tests := map[string]string{
		"Chest":                "chest",
		"Sleeve Length (in)":   "sleevelength",
		"  Cuff 2 ":            "cuff2",
		"Über-Länge":           "berlnge",
		"%%%":                  "field",
		"abcdefghijklmnopqrst": "abcdefghijkl",
	}
	for in, want := range tests {
		assert.Equal(t, want, DeriveFieldKey(in), in)
	}
}

func TestBuildFields(t *testing.T) {
	fields := BuildFields(7, []FieldSpec{
		{Label: "Chest"},
		{Label: "  "},
		{Label: "chest"},
		{Key: "waist", Label: "Waist"},
		{Label: "Chest!"},
	})

	require.Len(t, fields, 4)
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		assert.Equal(t, uint(7), f.SubcategoryID)
		keys = append(keys, f.FieldKey)
	}
	assert.Equal(t, []string{"chest", "chest2", "waist", "chest3"}, keys)
	// sort order keeps the submitted position
	assert.Equal(t, []int{0, 2, 3, 4}, []int{fields[0].SortOrder, fields[1].SortOrder, fields[2].SortOrder, fields[3].SortOrder})
}

func TestReplaceFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	registry := NewSchemaRegistry(db, nil)
	ctx := context.Background()
	_, subs := testutil.SeedSchema(t, db, "Shirt", "Full Hand")

	_, err := registry.ReplaceFields(ctx, subs[0].ID, []FieldSpec{{Label: "Chest"}, {Label: "Neck"}})
	require.NoError(t, err)

	saved, err := registry.ReplaceFields(ctx, subs[0].ID, []FieldSpec{{Label: "Sleeve"}, {Key: "cuff", Label: "Cuff"}})
	require.NoError(t, err)
	assert.Equal(t, []FieldSpec{{Key: "sleeve", Label: "Sleeve"}, {Key: "cuff", Label: "Cuff"}}, saved)

	listed, err := registry.ListFields(ctx, subs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, saved, listed)

	_, err = registry.ReplaceFields(ctx, 9999, []FieldSpec{{Label: "Chest"}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	registry := NewSchemaRegistry(db, nil)
	ctx := context.Background()

	shirt, shirtSubs := testutil.SeedSchema(t, db, "Shirt", "Full Hand", "Half Hand")
	_, pantSubs := testutil.SeedSchema(t, db, "Pant", "Trousers")
	for _, sub := range append(shirtSubs, pantSubs...) {
		_, err := registry.ReplaceFields(ctx, sub.ID, []FieldSpec{{Label: "Length"}})
		require.NoError(t, err)
	}

	require.NoError(t, registry.DeleteCategory(ctx, shirt.ID))

	var subCount, fieldCount int64
	require.NoError(t, db.Model(&models.Subcategory{}).Count(&subCount).Error)
	require.NoError(t, db.Model(&models.MeasurementField{}).Count(&fieldCount).Error)
	assert.Equal(t, int64(1), subCount)
	assert.Equal(t, int64(1), fieldCount)

	assert.ErrorIs(t, registry.DeleteCategory(ctx, shirt.ID), ErrNotFound)
}

func TestDeleteSubcategoryRemovesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	registry := NewSchemaRegistry(db, nil)
	ctx := context.Background()
	_, subs := testutil.SeedSchema(t, db, "Shirt", "Full Hand", "Half Hand")
	for _, sub := range subs {
		_, err := registry.ReplaceFields(ctx, sub.ID, []FieldSpec{{Label: "Chest"}, {Label: "Neck"}})
		require.NoError(t, err)
	}

	require.NoError(t, registry.DeleteSubcategory(ctx, subs[0].ID))

	var fieldCount int64
	require.NoError(t, db.Model(&models.MeasurementField{}).Count(&fieldCount).Error)
	assert.Equal(t, int64(2), fieldCount)
}

func TestAddCategoryAndSubcategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	registry := NewSchemaRegistry(db, nil)
	ctx := context.Background()

	_, err := registry.AddCategory(ctx, "  ", "")
	assert.ErrorIs(t, err, ErrValidation)

	cat, err := registry.AddCategory(ctx, "Kurta", "")
	require.NoError(t, err)
	assert.Equal(t, "Shirt", cat.MeasurementType)

	again, err := registry.AddCategory(ctx, "Kurta", "Pant")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, again.ID)

	sub, err := registry.AddSubcategory(ctx, cat.ID, "Long")
	require.NoError(t, err)
	dup, err := registry.AddSubcategory(ctx, cat.ID, "Long")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, dup.ID)

	_, err = registry.AddSubcategory(ctx, 9999, "Short")
	assert.ErrorIs(t, err, ErrNotFound)

	subs, err := registry.ListSubcategories(ctx, &cat.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestNameIndexKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	registry := NewSchemaRegistry(db, nil)
	cat, subs := testutil.SeedSchema(t, db, "Shirt", "Full Hand")

	names, err := registry.NameIndex(context.Background())
	require.NoError(t, err)

	missing := uint(9999)
	assert.Equal(t, "Shirt - Full Hand", names.Kind(cat.ID, &subs[0].ID))
	assert.Equal(t, "Shirt", names.Kind(cat.ID, nil))
	assert.Equal(t, "Shirt", names.Kind(cat.ID, &missing))
	assert.Equal(t, "Category", names.Kind(9999, nil))
	assert.Equal(t, "Category - Full Hand", names.Kind(9999, &subs[0].ID))
}
