package models

import (
	"time"
)

// Customer is keyed by phone for upserts from the intake form
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null;uniqueIndex" json:"phone"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"createdAt"`

	Orders       []Order       `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
	Measurements []Measurement `gorm:"foreignKey:CustomerID" json:"measurements,omitempty"`
}
