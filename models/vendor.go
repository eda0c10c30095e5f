package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Vendor struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VendorCode string    `gorm:"not null;uniqueIndex" json:"vendorCode"`
	Name       string    `gorm:"not null" json:"name"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Address    *string   `json:"address"`
	CreatedAt  time.Time `json:"createdAt"`

	Purchases []VendorPurchase `gorm:"foreignKey:VendorID" json:"purchases,omitempty"`
}

// VendorPurchase records material bought from a vendor.
// TotalPrice is always Qty * UnitPrice.
type VendorPurchase struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	VendorID     uint            `gorm:"index;not null" json:"vendorId"`
	MaterialName string          `gorm:"not null" json:"materialName"`
	Qty          decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"qty"`
	UOMID        *uint           `gorm:"column:uom_id" json:"uomId"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	PurchasedAt  time.Time       `gorm:"not null" json:"purchasedAt"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	UOM    *UOM    `gorm:"foreignKey:UOMID" json:"uom,omitempty"`
}
