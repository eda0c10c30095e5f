package models

import (
	"time"
)

// UOM is a unit of measure ("Meters", "Pieces")
type UOM struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`
}

func (UOM) TableName() string {
	return "uoms"
}

// InventoryItem is a stock line. InventoryCode is issued as <PFX>-### on
// creation and may be edited by hand afterwards.
type InventoryItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InventoryCode *string   `gorm:"uniqueIndex" json:"inventoryCode"`
	Name          string    `gorm:"not null" json:"name"`
	Supplier      *string   `json:"supplier"`
	Qty           int       `gorm:"not null" json:"qty"`
	UOMID         *uint     `gorm:"column:uom_id" json:"uomId"`
	UpdatedAt     time.Time `json:"updatedAt"`

	UOM *UOM `gorm:"foreignKey:UOMID" json:"uom,omitempty"`
}

func (InventoryItem) TableName() string {
	return "inventory"
}
