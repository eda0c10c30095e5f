package models

// Tailor is a staff member. TailorCode (TLR###) is also used as the staff
// number on salary expenses.
type Tailor struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	TailorCode string  `gorm:"not null;uniqueIndex" json:"tailorCode"`
	Name       string  `gorm:"not null" json:"name"`
	Role       string  `gorm:"not null" json:"role"`
	Phone      string  `gorm:"not null" json:"phone"`
	Status     string  `gorm:"not null" json:"status"`
	Team       *string `json:"team"`
}
