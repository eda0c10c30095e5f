package services

import (
	"context"
	"testing"

	"tailorshop-backend/models"
	"tailorshop-backend/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCodeSeeds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewCodeGenerator(db)
	ctx := context.Background()

	tests := []struct {
		family CodeFamily
		name   string
		want   string
	}{
		{FamilyTailor, "", "TLR001"},
		{FamilyVendor, "", "VND0001"},
		{FamilyExpense, "", "EXP-0001"},
		{FamilyInventory, "Italian Wool", "ITA-001"},
		{FamilyInventory, "100% Silk!", "SIL-001"},
		{FamilyInventory, "!!!", "INV-001"},
	}
	for _, tt := range tests {
		t.Run(string(tt.family)+"/"+tt.want, func(t *testing.T) {
			got, err := codes.Preview(ctx, tt.family, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodeIncrements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewCodeGenerator(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Tailor{TailorCode: "TLR001", Name: "Ravi", Status: "Active"}).Error)
	require.NoError(t, db.Create(&models.Vendor{VendorCode: "VND0041", Name: "Mills"}).Error)
	require.NoError(t, db.Create(&models.Expense{ExpenseNo: "EXP-0009", ExpenseName: "Rent"}).Error)
	for _, code := range []string{"LIN-001", "LIN-007", "LIN-003"} {
		code := code
		require.NoError(t, db.Create(&models.InventoryItem{InventoryCode: &code, Name: "Linen"}).Error)
	}

	got, err := codes.Preview(ctx, FamilyTailor, "")
	require.NoError(t, err)
	assert.Equal(t, "TLR002", got)

	got, err = codes.Preview(ctx, FamilyVendor, "")
	require.NoError(t, err)
	assert.Equal(t, "VND0042", got)

	got, err = codes.Preview(ctx, FamilyExpense, "")
	require.NoError(t, err)
	assert.Equal(t, "EXP-0010", got)

	got, err = codes.Preview(ctx, FamilyInventory, "linen white")
	require.NoError(t, err)
	assert.Equal(t, "LIN-008", got)
}

func TestNextVendorCodeFallsBackToCount(t *testing.T) {
	assert.Equal(t, "VND0004", nextVendorCode("ACME-1", 3, 0))
	assert.Equal(t, "VND0001", nextVendorCode("", 0, 0))
	assert.Equal(t, "VND0013", nextVendorCode("VND0012", 2, 0))
	assert.Equal(t, "VND0015", nextVendorCode("VND0012", 2, 2))
}

func TestNextExpenseNo(t *testing.T) {
	assert.Equal(t, "EXP-0001", nextExpenseNo("", 0))
	assert.Equal(t, "EXP-0124", nextExpenseNo("EXP-0123", 0))
	assert.Equal(t, "EXP-0001", nextExpenseNo("EXP-abc", 0))
}

func TestInventoryPrefix(t *testing.T) {
	tests := map[string]string{
		"Italian Wool": "ITA",
		"100% Silk!":   "SIL",
		"zip":          "ZIP",
		"a1":           "A1",
		"42":           "42",
		"":             "INV",
		"é—":           "INV",
	}
	for in, want := range tests {
		assert.Equal(t, want, InventoryPrefix(in), in)
	}
}

func TestIssueRetriesOnCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewCodeGenerator(db)

	// one tailor whose code is ahead of the count: the count-based code collides
	require.NoError(t, db.Create(&models.Tailor{TailorCode: "TLR002", Name: "Ravi", Status: "Active"}).Error)

	tailors := NewTailorService(db, codes)
	created, err := tailors.Create(context.Background(), TailorInput{Name: "Meena", Role: "Shirt"})
	require.NoError(t, err)
	assert.Equal(t, "TLR003", created.TailorCode)

	var count int64
	require.NoError(t, db.Model(&models.Tailor{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestIssueGivesUpAfterMaxAttempts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewCodeGenerator(db)

	calls := 0
	err := codes.Issue(context.Background(), FamilyVendor, func(tx *gorm.DB, attempt int) error {
		assert.Equal(t, calls, attempt)
		calls++
		return gorm.ErrDuplicatedKey
	})
	assert.ErrorIs(t, err, ErrCodeExhausted)
	assert.Equal(t, maxCodeAttempts, calls)
}

func TestIssueDoesNotRetryOtherErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	codes := NewCodeGenerator(db)

	calls := 0
	err := codes.Issue(context.Background(), FamilyExpense, func(tx *gorm.DB, attempt int) error {
		calls++
		return invalid("nope")
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, calls)
}

func TestParseCodeFamily(t *testing.T) {
	f, err := ParseCodeFamily("Vendor")
	require.NoError(t, err)
	assert.Equal(t, FamilyVendor, f)

	_, err = ParseCodeFamily("invoice")
	assert.ErrorIs(t, err, ErrValidation)
}
