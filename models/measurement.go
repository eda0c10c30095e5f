package models

import (
	"strings"
	"time"
)

// MeasurementFieldNames is the fixed superset of columns a measurement row
// can carry, in form order. "notes" is free text; the rest are sizes kept
// as entered ("15 1/2").
var MeasurementFieldNames = []string{
	"neck",
	"chest",
	"waist",
	"hip",
	"shoulder",
	"sleeve",
	"length",
	"cuff",
	"inseam",
	"outseam",
	"thigh",
	"knee",
	"bottom",
	"notes",
}

type Measurement struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID uint   `gorm:"index;not null" json:"customerId"`
	Kind       string `gorm:"not null" json:"kind"`

	Neck     *string `json:"neck"`
	Chest    *string `json:"chest"`
	Waist    *string `json:"waist"`
	Hip      *string `json:"hip"`
	Shoulder *string `json:"shoulder"`
	Sleeve   *string `json:"sleeve"`
	Length   *string `json:"length"`
	Cuff     *string `json:"cuff"`
	Inseam   *string `json:"inseam"`
	Outseam  *string `json:"outseam"`
	Thigh    *string `json:"thigh"`
	Knee     *string `json:"knee"`
	Bottom   *string `json:"bottom"`
	Notes    *string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
}

func (m *Measurement) field(name string) **string {
	switch name {
	case "neck":
		return &m.Neck
	case "chest":
		return &m.Chest
	case "waist":
		return &m.Waist
	case "hip":
		return &m.Hip
	case "shoulder":
		return &m.Shoulder
	case "sleeve":
		return &m.Sleeve
	case "length":
		return &m.Length
	case "cuff":
		return &m.Cuff
	case "inseam":
		return &m.Inseam
	case "outseam":
		return &m.Outseam
	case "thigh":
		return &m.Thigh
	case "knee":
		return &m.Knee
	case "bottom":
		return &m.Bottom
	case "notes":
		return &m.Notes
	}
	return nil
}

// Set stores value under the named field. Blank values are stored as nil.
// It reports false for names outside MeasurementFieldNames.
func (m *Measurement) Set(name, value string) bool {
	slot := m.field(name)
	if slot == nil {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		*slot = nil
		return true
	}
	*slot = &value
	return true
}

// Get returns the named field's value, "" when unset
func (m *Measurement) Get(name string) string {
	slot := m.field(name)
	if slot == nil || *slot == nil {
		return ""
	}
	return **slot
}

// IsEmpty reports whether every field, notes included, is blank
func (m *Measurement) IsEmpty() bool {
	for _, name := range MeasurementFieldNames {
		if m.Get(name) != "" {
			return false
		}
	}
	return true
}
