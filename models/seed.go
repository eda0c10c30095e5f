package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Seed loads the demo shop: garment schema, units, tailors and a few
// stock lines. Tables that already hold rows are left alone.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedSchema(tx); err != nil {
			return err
		}
		if err := seedUOMs(tx); err != nil {
			return err
		}
		if err := seedTailors(tx); err != nil {
			return err
		}
		return seedInventory(tx)
	})
}

func isEmpty(tx *gorm.DB, model interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func seedSchema(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &Category{})
	if err != nil || !empty {
		return err
	}
	schema := []struct {
		name string
		subs []string
	}{
		{"Shirt", []string{"Full Hand", "Half Hand"}},
		{"Pant", []string{"Trousers", "Boxers"}},
	}
	for _, s := range schema {
		category := Category{Name: s.name, MeasurementType: s.name}
		for _, sub := range s.subs {
			category.Subcategories = append(category.Subcategories, Subcategory{Name: sub})
		}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUOMs(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &UOM{})
	if err != nil || !empty {
		return err
	}
	uoms := []UOM{{Name: "KG"}, {Name: "Meters"}, {Name: "Pieces"}, {Name: "Bits"}}
	return tx.Create(&uoms).Error
}

func seedTailors(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &Tailor{})
	if err != nil || !empty {
		return err
	}
	var tailors []Tailor
	for _, team := range []string{"Shirt", "Pant"} {
		for i := 1; i <= 5; i++ {
			n := len(tailors) + 1
			t := team
			tailors = append(tailors, Tailor{
				TailorCode: fmt.Sprintf("TLR%03d", n),
				Name:       fmt.Sprintf("%s Tailor %d", team, i),
				Role:       team,
				Phone:      fmt.Sprintf("9000000%02d", n),
				Status:     "Active",
				Team:       &t,
			})
		}
	}
	return tx.Create(&tailors).Error
}

func seedInventory(tx *gorm.DB) error {
	empty, err := isEmpty(tx, &InventoryItem{})
	if err != nil || !empty {
		return err
	}
	var uom UOM
	if err := tx.Order("id").First(&uom).Error; err != nil {
		return err
	}
	stock := []struct {
		code, name, supplier string
		qty                  int
	}{
		{"ITA-001", "Italian Cotton - Navy", "Milano Textiles", 24},
		{"LIN-001", "Linen Blend - Sand", "Coastal Looms", 10},
		{"PRE-001", "Premium Buttons - Pearl", "ButtonWorks", 80},
		{"ZIP-001", "Zipper 12in - Black", "Metro Trims", 18},
		{"THR-001", "Thread - White 40wt", "StitchPro", 55},
		{"THR-002", "Thread - Charcoal 40wt", "StitchPro", 14},
	}
	items := make([]InventoryItem, 0, len(stock))
	for _, s := range stock {
		code, supplier := s.code, s.supplier
		items = append(items, InventoryItem{
			InventoryCode: &code,
			Name:          s.name,
			Supplier:      &supplier,
			Qty:           s.qty,
			UOMID:         &uom.ID,
		})
	}
	return tx.Create(&items).Error
}
