package models

// RequirementIcon is a named requirement ("Pockets", "Pleats") with an icon
// offered on the intake form.
type RequirementIcon struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Filename string `gorm:"not null" json:"filename"`
}
