package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	CustomerID     uint        `gorm:"index;not null" json:"customerId"`
	Status         OrderStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Priority       string      `gorm:"type:varchar(32);not null" json:"priority"`
	AssignedTeam   *string     `json:"assignedTeam"`
	AssignedTailor *string     `json:"assignedTailor"`
	DueDate        *time.Time  `json:"dueDate"`
	Notes          *string     `gorm:"type:text" json:"notes"`

	AdvanceAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"advanceAmount"`
	TotalAmount   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"totalAmount"`

	Milestones `gorm:"embedded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Images   []OrderImage `gorm:"foreignKey:OrderID" json:"images,omitempty"`
}

type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"index;not null" json:"orderId"`
	ItemType string  `gorm:"not null" json:"itemType"`
	Qty      int     `gorm:"not null" json:"qty"`
	Notes    *string `json:"notes"`
}

// OrderImage points at a stored reference photo. Filename is the storage key.
type OrderImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OrderID  uint   `gorm:"index;not null" json:"orderId"`
	Filename string `gorm:"not null" json:"filename"`
	Label    string `json:"label"`
}
