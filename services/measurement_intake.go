package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"tailorshop-backend/metrics"
	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MeasurementForm is the index-correlated measurement input of an intake
// form. Every slice may have a different length; Fields is keyed by the
// names in models.MeasurementFieldNames.
type MeasurementForm struct {
	CategoryIDs    []string
	SubcategoryIDs []string
	Labels         []string
	Fields         map[string][]string
}

// MeasurementRow is one measurement entry. A nil CategoryID means the row
// was left unselected and is skipped.
type MeasurementRow struct {
	CategoryID    *uint             `json:"categoryId"`
	SubcategoryID *uint             `json:"subcategoryId"`
	Label         string            `json:"label"`
	Values        map[string]string `json:"values"`
}

// IntakeStats counts what happened to submitted rows
type IntakeStats struct {
	Saved   int `json:"saved"`
	Dropped int `json:"dropped"`
	Skipped int `json:"skipped"`
}

// Len is the row count: the longest of the form's slices
func (f MeasurementForm) Len() int {
	n := max(len(f.CategoryIDs), len(f.SubcategoryIDs), len(f.Labels))
	for _, values := range f.Fields {
		n = max(n, len(values))
	}
	return n
}

// Ragged reports whether the slices differ in length
func (f MeasurementForm) Ragged() bool {
	n := f.Len()
	if len(f.CategoryIDs) != n || len(f.SubcategoryIDs) != n || len(f.Labels) != n {
		return true
	}
	for _, values := range f.Fields {
		if len(values) != n {
			return true
		}
	}
	return false
}

// Rows converts the form into one row per index. A missing or blank
// category id leaves CategoryID nil; an id that does not parse becomes 0,
// which resolves to the "Category" fallback kind.
func (f MeasurementForm) Rows() []MeasurementRow {
	n := f.Len()
	rows := make([]MeasurementRow, 0, n)
	for i := 0; i < n; i++ {
		row := MeasurementRow{
			Label:  strings.TrimSpace(at(f.Labels, i)),
			Values: make(map[string]string, len(f.Fields)),
		}
		if raw := strings.TrimSpace(at(f.CategoryIDs, i)); raw != "" {
			id := parseID(raw)
			row.CategoryID = &id
		}
		if raw := strings.TrimSpace(at(f.SubcategoryIDs, i)); raw != "" {
			id := parseID(raw)
			row.SubcategoryID = &id
		}
		for name, values := range f.Fields {
			if i < len(values) {
				row.Values[name] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// BuildMeasurements binds rows to measurements for customerID. Rows without
// a category are skipped; rows whose every value is blank after the label
// merge are dropped.
func BuildMeasurements(customerID uint, rows []MeasurementRow, names NameIndex, now time.Time) ([]models.Measurement, IntakeStats) {
	var stats IntakeStats
	measurements := make([]models.Measurement, 0, len(rows))
	for _, row := range rows {
		if row.CategoryID == nil {
			stats.Skipped++
			continue
		}

		m := models.Measurement{
			CustomerID: customerID,
			Kind:       names.Kind(*row.CategoryID, row.SubcategoryID),
			CreatedAt:  now,
		}
		for _, name := range models.MeasurementFieldNames {
			m.Set(name, row.Values[name])
		}
		if label := strings.TrimSpace(row.Label); label != "" {
			m.Set("notes", strings.TrimSpace("Label: "+label+"\n"+m.Get("notes")))
		}

		if m.IsEmpty() {
			stats.Dropped++
			continue
		}
		measurements = append(measurements, m)
		stats.Saved++
	}
	return measurements, stats
}

// MeasurementIntake persists measurement rows against the schema registry
type MeasurementIntake struct {
	registry *SchemaRegistry
	db       *gorm.DB
}

func NewMeasurementIntake(db *gorm.DB, registry *SchemaRegistry) *MeasurementIntake {
	return &MeasurementIntake{registry: registry, db: db}
}

// Record builds and inserts the measurements using tx. names must be
// loaded by the caller before tx was opened.
func (m *MeasurementIntake) Record(tx *gorm.DB, customerID uint, rows []MeasurementRow, names NameIndex, now time.Time) ([]models.Measurement, IntakeStats, error) {
	measurements, stats := BuildMeasurements(customerID, rows, names, now)
	if len(measurements) > 0 {
		if err := tx.Create(&measurements).Error; err != nil {
			return nil, stats, errors.Wrap(err, "failed to save measurements")
		}
	}
	metrics.RecordMeasurements(stats.Saved, stats.Dropped, stats.Skipped)
	log.Debug().
		Uint("customer_id", customerID).
		Int("saved", stats.Saved).
		Int("dropped", stats.Dropped).
		Int("skipped", stats.Skipped).
		Msg("Measurements recorded")
	return measurements, stats, nil
}

// Submit records rows for an existing customer in its own transaction
func (m *MeasurementIntake) Submit(ctx context.Context, customerID uint, rows []MeasurementRow) ([]models.Measurement, IntakeStats, error) {
	var customer models.Customer
	if err := m.db.WithContext(ctx).First(&customer, customerID).Error; err != nil {
		return nil, IntakeStats{}, notFound(err, "customer")
	}
	names, err := m.registry.NameIndex(ctx)
	if err != nil {
		return nil, IntakeStats{}, err
	}

	var (
		saved []models.Measurement
		stats IntakeStats
	)
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		saved, stats, err = m.Record(tx, customerID, rows, names, time.Now())
		return err
	})
	return saved, stats, err
}

// History lists a customer's measurements, newest first
func (m *MeasurementIntake) History(ctx context.Context, customerID uint) ([]models.Measurement, error) {
	var measurements []models.Measurement
	if err := m.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&measurements).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load measurements")
	}
	return measurements, nil
}
