package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"tailorshop-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated sqlite database in a per-test temp dir.
// The file is removed with the dir when the test completes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(0)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedSchema creates a category with the given subcategories and returns
// the category and subcategory rows.
func SeedSchema(t *testing.T, db *gorm.DB, category string, subcategories ...string) (models.Category, []models.Subcategory) {
	t.Helper()
	cat := models.Category{Name: category, MeasurementType: category}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	subs := make([]models.Subcategory, 0, len(subcategories))
	for _, name := range subcategories {
		sub := models.Subcategory{CategoryID: cat.ID, Name: name}
		if err := db.Create(&sub).Error; err != nil {
			t.Fatalf("Failed to seed subcategory: %v", err)
		}
		subs = append(subs, sub)
	}
	return cat, subs
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// DoRequest executes a JSON request against the test router
func DoRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DoForm executes a url-encoded form request
func DoForm(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Upload is a file part of a multipart request
type Upload struct {
	Field    string
	Filename string
	Content  []byte
}

// DoMultipart executes a multipart form request with optional file parts
func DoMultipart(r http.Handler, method, path string, form url.Values, files ...Upload) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, v := range values {
			mw.WriteField(key, v)
		}
	}
	for _, f := range files {
		part, _ := mw.CreateFormFile(f.Field, f.Filename)
		part.Write(f.Content)
	}
	mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
