package models

// Category is the top of the measurement schema. MeasurementType tags the
// kind of garment its subcategories describe ("Shirt", "Pant").
type Category struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"not null;uniqueIndex" json:"name"`
	MeasurementType string `gorm:"not null" json:"measurementType"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}

type Subcategory struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CategoryID uint   `gorm:"not null;uniqueIndex:idx_subcategory_name,priority:1" json:"categoryId"`
	Name       string `gorm:"not null;uniqueIndex:idx_subcategory_name,priority:2" json:"name"`

	Fields []MeasurementField `gorm:"foreignKey:SubcategoryID" json:"fields,omitempty"`
}

// MeasurementField is one input control shown for a subcategory
type MeasurementField struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	SubcategoryID uint   `gorm:"not null;uniqueIndex:idx_field_key,priority:1" json:"subcategoryId"`
	FieldKey      string `gorm:"not null;uniqueIndex:idx_field_key,priority:2" json:"key"`
	FieldLabel    string `gorm:"not null" json:"label"`
	SortOrder     int    `gorm:"not null" json:"sortOrder"`
}
