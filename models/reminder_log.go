// models/reminder_log.go
package models

import (
	"time"
)

// ReminderLog records one pickup reminder attempt
type ReminderLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"index;not null" json:"orderId"`
	CustomerID   uint      `gorm:"index;not null" json:"customerId"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"`  // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt       time.Time `gorm:"index" json:"sentAt"`
}
