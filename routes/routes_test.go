package routes

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"tailorshop-backend/config"
	"tailorshop-backend/services"
	"tailorshop-backend/storage"
	"tailorshop-backend/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)
	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	deps := NewDeps(db, services.NewSchemaRegistry(db, nil), files, nil)
	return SetupRouter(config.ServerConfig{SlowRequest: time.Second}, deps), db
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	w := testutil.DoRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestOrderIntakeOverMultipart(t *testing.T) {
	r, db := setupRouter(t)
	cat, subs := testutil.SeedSchema(t, db, "Shirt", "Full Hand")

	form := url.Values{
		"name":                   {"Asha"},
		"phone":                  {"555-0199"},
		"measure_category_id":    {strconv.Itoa(int(cat.ID))},
		"measure_subcategory_id": {strconv.Itoa(int(subs[0].ID))},
		"measure_label":          {""},
		"measure_chest":          {"40"},
		"item_type":              {"Shirt"},
		"item_qty":               {"2"},
		"image_labels":           {"front"},
		"total_amount":           {"1500"},
	}
	w := testutil.DoMultipart(r, http.MethodPost, "/api/orders", form,
		testutil.Upload{Field: "order_images", Filename: "front.jpg", Content: []byte("jpeg-bytes")})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := testutil.ParseResponse(w)
	assert.Equal(t, true, body["customerCreated"])
	stats := body["measurements"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["saved"])

	order := body["order"].(map[string]interface{})
	assert.Equal(t, "Pending", order["status"])
	images := order["images"].([]interface{})
	require.Len(t, images, 1)
	key := images[0].(map[string]interface{})["filename"].(string)

	w = testutil.DoRequest(r, http.MethodGet, "/files/"+key, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())

	w = testutil.DoRequest(r, http.MethodGet, "/files/orders/missing.jpg", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderIntakeValidationEchoesForm(t *testing.T) {
	r, _ := setupRouter(t)

	w := testutil.DoForm(r, http.MethodPost, "/api/orders", url.Values{"name": {"Asha"}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := testutil.ParseResponse(w)
	assert.Equal(t, "Customer name and phone are required.", body["error"])
	form := body["form"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Asha"}, form["name"])
}

func TestOrderUpdate(t *testing.T) {
	r, _ := setupRouter(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/orders", map[string]interface{}{
		"name":  "Asha",
		"phone": "555-0199",
		"items": []map[string]interface{}{{"itemType": "Pant", "qty": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := testutil.ParseResponse(w)["order"].(map[string]interface{})
	path := fmt.Sprintf("/api/orders/%d", int(order["id"].(float64)))

	w = testutil.DoForm(r, http.MethodPut, path, url.Values{"status": {"Completed"}, "paid": {"1"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testutil.ParseResponse(w)
	assert.ElementsMatch(t, []interface{}{"completed", "paid"}, body["stamped"])

	// milestones already stamped are not reported again
	w = testutil.DoRequest(r, http.MethodPut, path, map[string]interface{}{"status": "Completed", "paid": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, testutil.ParseResponse(w)["stamped"])

	w = testutil.DoRequest(r, http.MethodPut, path, map[string]interface{}{"status": "Shipped"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = testutil.DoRequest(r, http.MethodPut, "/api/orders/999", map[string]interface{}{"status": "Ready"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoRequest(r, http.MethodGet, "/api/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditPathsRedirectWhenMissing(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		method   string
		path     string
		body     interface{}
		location string
	}{
		{http.MethodGet, "/api/customers/999", nil, "/api/customers"},
		{http.MethodPut, "/api/customers/999", map[string]string{"name": "x", "phone": "1"}, "/api/customers"},
		{http.MethodGet, "/api/expenses/999", nil, "/api/expenses"},
		{http.MethodPut, "/api/expenses/999", map[string]string{"expenseName": "x", "expenseAmount": "1"}, "/api/expenses"},
		{http.MethodGet, "/api/inventory/999", nil, "/api/inventory"},
		{http.MethodGet, "/api/vendors/999", nil, "/api/vendors"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := testutil.DoRequest(r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestStaffLookup(t *testing.T) {
	r, _ := setupRouter(t)

	w := testutil.DoForm(r, http.MethodPost, "/api/tailors", url.Values{"name": {"Ravi"}, "role": {"Shirt"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "TLR001", testutil.ParseResponse(w)["tailorCode"])

	w = testutil.DoRequest(r, http.MethodGet, "/api/staff/TLR001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ravi", testutil.ParseResponse(w)["name"])

	w = testutil.DoRequest(r, http.MethodGet, "/api/staff/TLR999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", testutil.ParseResponse(w)["name"])
}

func TestCodePreview(t *testing.T) {
	r, _ := setupRouter(t)

	w := testutil.DoRequest(r, http.MethodGet, "/api/codes/vendor", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "VND0001", testutil.ParseResponse(w)["code"])

	w = testutil.DoRequest(r, http.MethodGet, "/api/codes/inventory?name=Linen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LIN-001", testutil.ParseResponse(w)["code"])

	w = testutil.DoRequest(r, http.MethodGet, "/api/codes/invoice", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSchemaRoutes(t *testing.T) {
	r, _ := setupRouter(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/categories", map[string]string{"name": "Shirt", "measurementType": "Shirt"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	catID := int(testutil.ParseResponse(w)["id"].(float64))

	w = testutil.DoForm(r, http.MethodPost, "/api/subcategories", url.Values{
		"subcategory_category_id": {strconv.Itoa(catID)},
		"subcategory_name":        {"Full Hand"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	subID := int(testutil.ParseResponse(w)["id"].(float64))

	w = testutil.DoRequest(r, http.MethodGet, fmt.Sprintf("/api/subcategories?category_id=%d", catID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Full Hand")

	w = testutil.DoRequest(r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(r, http.MethodGet, fmt.Sprintf("/api/subcategories/%d/fields", subID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestDashboard(t *testing.T) {
	r, _ := setupRouter(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/orders", map[string]interface{}{
		"name":   "Asha",
		"phone":  "555-0199",
		"status": "Ready",
		"items":  []map[string]interface{}{{"itemType": "Shirt", "qty": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.DoRequest(r, http.MethodGet, "/api/dashboard?q=555", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := testutil.ParseResponse(w)
	assert.Equal(t, float64(1), body["totalOrders"])
	assert.Equal(t, float64(3), body["totalItems"])
	assert.Len(t, body["pickups"], 1)

	w = testutil.DoRequest(r, http.MethodGet, "/api/reports", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
