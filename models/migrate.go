package models

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Category{},
		&Subcategory{},
		&MeasurementField{},
		&Measurement{},
		&Order{},
		&OrderItem{},
		&OrderImage{},
		&Tailor{},
		&UOM{},
		&InventoryItem{},
		&Vendor{},
		&VendorPurchase{},
		&Expense{},
		&Salary{},
		&RequirementIcon{},
		&ReminderLog{},
	)
}
