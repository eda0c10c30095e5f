package services

import (
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"tailorshop-backend/models"
	"tailorshop-backend/storage"
	"tailorshop-backend/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrders(t *testing.T) (*gorm.DB, *OrderService, *storage.Local) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return db, NewOrderService(db, NewSchemaRegistry(db, nil), store), store
}

func textUpload(name, body, label string) ImageUpload {
	return ImageUpload{
		Filename:    name,
		Size:        int64(len(body)),
		ContentType: "image/jpeg",
		Label:       label,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestOrderIntakeScenario(t *testing.T) {
	db, svc, _ := setupOrders(t)
	cat, subs := testutil.SeedSchema(t, db, "Shirt", "Full Hand")

	form := MeasurementForm{
		CategoryIDs:    []string{strconv.Itoa(int(cat.ID))},
		SubcategoryIDs: []string{strconv.Itoa(int(subs[0].ID))},
		Labels:         []string{""},
		Fields:         map[string][]string{"chest": {"40"}},
	}
	items := ItemForm{
		Types: []string{"Shirt", "Pant"},
		Qtys:  []string{"2", "1"},
	}

	result, err := svc.Intake(context.Background(), IntakeInput{
		Customer:     CustomerInput{Name: "Asha", Phone: "555-0199"},
		Measurements: form.Rows(),
		Items:        items.Rows(),
	})
	require.NoError(t, err)
	assert.True(t, result.CustomerCreated)
	assert.Equal(t, IntakeStats{Saved: 1}, result.Measurements)
	assert.Equal(t, models.StatusPending, result.Order.Status)
	assert.Equal(t, "Normal", result.Order.Priority)

	var customers, orders, orderItems int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&orderItems).Error)
	assert.Equal(t, int64(1), customers)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(2), orderItems)

	var measurements []models.Measurement
	require.NoError(t, db.Find(&measurements).Error)
	require.Len(t, measurements, 1)
	assert.Equal(t, "Shirt - Full Hand", measurements[0].Kind)
	assert.Equal(t, "40", measurements[0].Get("chest"))
	assert.Equal(t, result.Order.CustomerID, measurements[0].CustomerID)

	loaded, err := svc.Get(context.Background(), result.Order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Shirt", loaded.Items[0].ItemType)
	assert.Equal(t, 2, loaded.Items[0].Qty)
	assert.Equal(t, "Pant", loaded.Items[1].ItemType)
	assert.Equal(t, 1, loaded.Items[1].Qty)
}

func TestOrderIntakeReusesCustomerByPhone(t *testing.T) {
	db, svc, _ := setupOrders(t)
	ctx := context.Background()

	first, err := svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "Asha", Phone: "555-0199", Notes: "first"}})
	require.NoError(t, err)
	second, err := svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "Asha R", Phone: "555-0199", Notes: "second"}})
	require.NoError(t, err)

	assert.False(t, second.CustomerCreated)
	assert.Equal(t, first.Order.CustomerID, second.Order.CustomerID)

	var customer models.Customer
	require.NoError(t, db.First(&customer, first.Order.CustomerID).Error)
	assert.Equal(t, "Asha R", customer.Name)
	assert.Equal(t, "second", customer.Notes)
}

func TestOrderIntakeDetails(t *testing.T) {
	db, svc, store := setupOrders(t)
	team := "Shirt"
	require.NoError(t, db.Create(&models.Tailor{TailorCode: "TLR001", Name: "Ravi", Status: "Active", Team: &team}).Error)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	result, err := svc.Intake(context.Background(), IntakeInput{
		Customer:       CustomerInput{Name: "Asha", Phone: "555-0199"},
		DueDate:        &due,
		Priority:       "Urgent",
		Status:         "ready",
		AssignedTailor: "Ravi",
		Notes:          "double stitch",
		Requirements:   []string{"Buttons", " ", "Lining"},
		AdvanceAmount:  decimal.NewNullDecimal(decimal.RequireFromString("500")),
		Items: []ItemRow{
			{ItemType: "Shirt", Qty: 0},
			{ItemType: "  ", Qty: 3},
		},
		Images: []ImageUpload{
			textUpload("front.jpg", "abc", "Front"),
			textUpload("front.jpg", "abc", "Front again"),
			textUpload("back.jpg", "abcd", "Back"),
		},
	})
	require.NoError(t, err)

	order, err := svc.Get(context.Background(), result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, order.Status)
	assert.Equal(t, "Urgent", order.Priority)
	require.NotNil(t, order.AssignedTeam)
	assert.Equal(t, "Shirt", *order.AssignedTeam)
	require.NotNil(t, order.Notes)
	assert.Equal(t, "Requirements: Buttons, Lining\ndouble stitch", *order.Notes)
	assert.True(t, order.AdvanceAmount.Valid)
	assert.True(t, order.AdvanceAmount.Decimal.Equal(decimal.NewFromInt(500)))
	assert.False(t, order.TotalAmount.Valid)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Qty)

	require.Len(t, order.Images, 2)
	for _, img := range order.Images {
		assert.True(t, strings.HasPrefix(img.Filename, "orders/"))
		rc, err := store.Get(context.Background(), img.Filename)
		require.NoError(t, err)
		rc.Close()
	}
}

func TestOrderIntakeValidation(t *testing.T) {
	_, svc, _ := setupOrders(t)
	ctx := context.Background()

	_, err := svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "", Phone: "555-0199"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "Asha", Phone: "555-0199"}, Status: "Shipped"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderUpdatePaidTwiceKeepsFirstTimestamp(t *testing.T) {
	_, svc, _ := setupOrders(t)
	ctx := context.Background()
	created, err := svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "Asha", Phone: "555-0199"}})
	require.NoError(t, err)

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t1 }
	_, stamped, err := svc.Update(ctx, created.Order.ID, UpdateInput{Status: "Pending", Paid: true})
	require.NoError(t, err)
	assert.Equal(t, []models.Milestone{models.MilestonePaid}, stamped)

	svc.now = func() time.Time { return t1.Add(24 * time.Hour) }
	_, stamped, err = svc.Update(ctx, created.Order.ID, UpdateInput{Status: "Pending", Paid: true})
	require.NoError(t, err)
	assert.Empty(t, stamped)

	order, err := svc.Get(ctx, created.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, order.PaidAt)
	assert.True(t, order.PaidAt.Equal(t1), "paid_at moved to %s", order.PaidAt)
}

func TestOrderUpdateRevertKeepsMilestones(t *testing.T) {
	_, svc, _ := setupOrders(t)
	ctx := context.Background()
	created, err := svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "Asha", Phone: "555-0199"}})
	require.NoError(t, err)

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t1 }
	_, stamped, err := svc.Update(ctx, created.Order.ID, UpdateInput{Status: "Completed", PickedUp: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Milestone{models.MilestoneCompleted, models.MilestonePickedUp}, stamped)

	svc.now = func() time.Time { return t1.Add(time.Hour) }
	tailor := "Ravi"
	updated, stamped, err := svc.Update(ctx, created.Order.ID, UpdateInput{
		Status:         "In progress",
		AssignedTailor: &tailor,
		TotalAmount:    decimal.NewNullDecimal(decimal.NewFromInt(1200)),
	})
	require.NoError(t, err)
	assert.Empty(t, stamped)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	order, err := svc.Get(ctx, created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, order.Status)
	require.NotNil(t, order.CompletedAt)
	require.NotNil(t, order.PickedUpAt)
	assert.True(t, order.CompletedAt.Equal(t1))
	assert.True(t, order.PickedUpAt.Equal(t1))
	assert.Nil(t, order.PaidAt)
	require.NotNil(t, order.AssignedTailor)
	assert.Equal(t, "Ravi", *order.AssignedTailor)
	assert.True(t, order.TotalAmount.Decimal.Equal(decimal.NewFromInt(1200)))
}

func TestOrderUpdateMissingOrder(t *testing.T) {
	_, svc, _ := setupOrders(t)
	_, _, err := svc.Update(context.Background(), 9999, UpdateInput{Status: "Ready"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderDeleteRemovesItemsAndImages(t *testing.T) {
	db, svc, store := setupOrders(t)
	ctx := context.Background()
	created, err := svc.Intake(ctx, IntakeInput{
		Customer: CustomerInput{Name: "Asha", Phone: "555-0199"},
		Items:    []ItemRow{{ItemType: "Shirt", Qty: 1}},
		Images:   []ImageUpload{textUpload("front.jpg", "abc", "")},
	})
	require.NoError(t, err)
	key := created.Order.Images[0].Filename

	require.NoError(t, svc.Delete(ctx, created.Order.ID))

	var items, images int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.OrderImage{}).Count(&images).Error)
	assert.Zero(t, items)
	assert.Zero(t, images)
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.Order.ID), ErrNotFound)
}

func TestOrderListStatusFilter(t *testing.T) {
	_, svc, _ := setupOrders(t)
	ctx := context.Background()
	_, err := svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "Asha", Phone: "1"}, Status: "Ready"})
	require.NoError(t, err)
	_, err = svc.Intake(ctx, IntakeInput{Customer: CustomerInput{Name: "Bala", Phone: "2"}})
	require.NoError(t, err)

	ready, err := svc.List(ctx, "ready")
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, "Asha", ready[0].Customer.Name)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, "Lost")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestItemFormRows(t *testing.T) {
	rows := ItemForm{
		Types: []string{"Shirt", "Pant", "Kurta"},
		Qtys:  []string{"2", "abc"},
		Notes: []string{"", "", "", "orphan"},
	}.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, 2, rows[0].Qty)
	assert.Equal(t, 1, rows[1].Qty)
	assert.Equal(t, 1, rows[2].Qty)
	assert.Equal(t, "", rows[3].ItemType)
	assert.Equal(t, "orphan", rows[3].Notes)
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "front_view.jpg", SafeFilename("front view.jpg"))
	assert.Equal(t, "passwd", SafeFilename("../../etc/passwd"))
	assert.Equal(t, "photo.png", SafeFilename(`C:\Users\me\photo.png`))
	assert.Equal(t, "upload", SafeFilename("..."))
}
