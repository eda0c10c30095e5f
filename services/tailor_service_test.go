package services

import (
	"context"
	"testing"

	"tailorshop-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTailorCreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewTailorService(db, NewCodeGenerator(db))
	ctx := context.Background()

	ravi, err := svc.Create(ctx, TailorInput{Name: " Ravi ", Role: "Shirt", Phone: "555-0400"})
	require.NoError(t, err)
	assert.Equal(t, "TLR001", ravi.TailorCode)
	assert.Equal(t, "Active", ravi.Status)
	require.NotNil(t, ravi.Team)
	assert.Equal(t, "Shirt", *ravi.Team)

	meena, err := svc.Create(ctx, TailorInput{Name: "Meena", Role: "Pant", Status: "On leave"})
	require.NoError(t, err)
	assert.Equal(t, "TLR002", meena.TailorCode)

	name, err := svc.LookupName(ctx, " TLR002 ")
	require.NoError(t, err)
	assert.Equal(t, "Meena", name)

	name, err = svc.LookupName(ctx, "TLR404")
	require.NoError(t, err)
	assert.Empty(t, name)

	tailors, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tailors, 2)
	assert.Equal(t, "Meena", tailors[0].Name)

	_, err = svc.Create(ctx, TailorInput{Role: "Shirt"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTailorUpdateMovesTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewTailorService(db, NewCodeGenerator(db))
	ctx := context.Background()

	ravi, err := svc.Create(ctx, TailorInput{Name: "Ravi", Role: "Shirt"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, ravi.ID, TailorInput{Name: "Ravi", Role: "Pant"})
	require.NoError(t, err)
	assert.Equal(t, "TLR001", updated.TailorCode)
	require.NotNil(t, updated.Team)
	assert.Equal(t, "Pant", *updated.Team)

	_, err = svc.Update(ctx, 999, TailorInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
