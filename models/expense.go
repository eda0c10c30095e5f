package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ExpenseNo   string          `gorm:"not null;uniqueIndex" json:"expenseNo"`
	ExpenseName string          `gorm:"not null" json:"expenseName"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`

	Salary *Salary `gorm:"foreignKey:ExpenseID" json:"salary,omitempty"`
}

// Salary marks an expense as a staff payment
type Salary struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ExpenseID    uint            `gorm:"not null;uniqueIndex" json:"expenseId"`
	StaffNo      string          `gorm:"not null" json:"staffNo"`
	ShiftNo      string          `gorm:"not null" json:"shiftNo"`
	SalaryAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"salaryAmount"`
	CreatedAt    time.Time       `json:"createdAt"`
}
