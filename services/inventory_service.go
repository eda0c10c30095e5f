package services

import (
	"context"
	"strings"
	"time"

	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// LowStockQty is the quantity at or below which an item counts as low stock
const LowStockQty = 5

// InventoryRow is one line of a batch add
type InventoryRow struct {
	Name     string `json:"name"`
	Supplier string `json:"supplier"`
	Qty      int    `json:"qty"`
	UOMID    *uint  `json:"uomId"`
}

// InventoryUpdate edits an item. A nil Code leaves the code unchanged; an
// empty one clears it.
type InventoryUpdate struct {
	Name     string  `json:"name"`
	Supplier string  `json:"supplier"`
	Qty      int     `json:"qty"`
	UOMID    *uint   `json:"uomId"`
	Code     *string `json:"inventoryCode"`
}

type InventoryService struct {
	db    *gorm.DB
	codes *CodeGenerator
	now   func() time.Time
}

func NewInventoryService(db *gorm.DB, codes *CodeGenerator) *InventoryService {
	return &InventoryService{db: db, codes: codes, now: time.Now}
}

func (s *InventoryService) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).Preload("UOM").Order("name ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list inventory")
	}
	return items, nil
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).Preload("UOM").First(&item, id).Error; err != nil {
		return nil, notFound(err, "inventory item")
	}
	return &item, nil
}

// CreateBatch stores every row with a name, each with its own inventory
// code. Rows without a name are ignored; at least one is required.
func (s *InventoryService) CreateBatch(ctx context.Context, rows []InventoryRow) ([]models.InventoryItem, error) {
	var pending []InventoryRow
	for _, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		if row.Name != "" {
			pending = append(pending, row)
		}
	}
	if len(pending) == 0 {
		return nil, invalid("At least one item is required.")
	}

	var items []models.InventoryItem
	err := s.codes.Issue(ctx, FamilyInventory, func(tx *gorm.DB, attempt int) error {
		items = items[:0]
		for _, row := range pending {
			code, err := s.codes.NextInventoryCode(tx, row.Name, attempt)
			if err != nil {
				return err
			}
			item := models.InventoryItem{
				InventoryCode: &code,
				Name:          row.Name,
				Supplier:      trimOrNil(row.Supplier),
				Qty:           row.Qty,
				UOMID:         nonZero(row.UOMID),
				UpdatedAt:     s.now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update edits the item, including a manual change of its code
func (s *InventoryService) Update(ctx context.Context, id uint, in InventoryUpdate) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, "inventory item")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Item name is required.")
	}

	columns := []string{"name", "supplier", "qty", "uom_id", "updated_at"}
	item.Name = name
	item.Supplier = trimOrNil(in.Supplier)
	item.Qty = in.Qty
	item.UOMID = nonZero(in.UOMID)
	item.UpdatedAt = s.now()
	if in.Code != nil {
		item.InventoryCode = trimOrNil(*in.Code)
		columns = append(columns, "inventory_code")
	}

	if err := s.db.WithContext(ctx).Model(&item).Select(columns).Updates(&item).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, invalid("Inventory code %s is already in use.", *item.InventoryCode)
		}
		return nil, errors.Wrap(err, "failed to update inventory item")
	}
	return &item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete inventory item")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "inventory item")
	}
	return nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
