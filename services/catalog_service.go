package services

import (
	"context"
	"strings"

	"tailorshop-backend/models"
	"tailorshop-backend/storage"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService manages the small lookup tables offered on forms: units
// of measure and requirement icons.
type CatalogService struct {
	db    *gorm.DB
	icons storage.Store
}

func NewCatalogService(db *gorm.DB, icons storage.Store) *CatalogService {
	return &CatalogService{db: db, icons: icons}
}

func (s *CatalogService) ListUOMs(ctx context.Context) ([]models.UOM, error) {
	var uoms []models.UOM
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&uoms).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list uoms")
	}
	return uoms, nil
}

// AddUOM creates a unit; an existing name returns the existing row
func (s *CatalogService) AddUOM(ctx context.Context, name string) (*models.UOM, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Unit name is required.")
	}
	uom := models.UOM{Name: name}
	if err := s.db.WithContext(ctx).Where(models.UOM{Name: name}).FirstOrCreate(&uom).Error; err != nil {
		return nil, errors.Wrap(err, "failed to add uom")
	}
	return &uom, nil
}

// DeleteUOM removes a unit and unlinks the items and purchases using it
func (s *CatalogService) DeleteUOM(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.InventoryItem{}).Where("uom_id = ?", id).Update("uom_id", nil).Error; err != nil {
			return errors.Wrap(err, "failed to unlink inventory")
		}
		if err := tx.Model(&models.VendorPurchase{}).Where("uom_id = ?", id).Update("uom_id", nil).Error; err != nil {
			return errors.Wrap(err, "failed to unlink purchases")
		}
		res := tx.Delete(&models.UOM{}, id)
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to delete uom")
		}
		if res.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "uom")
		}
		return nil
	})
}

func (s *CatalogService) ListRequirements(ctx context.Context) ([]models.RequirementIcon, error) {
	var icons []models.RequirementIcon
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&icons).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list requirements")
	}
	return icons, nil
}

// AddRequirement stores the icon and records the requirement
func (s *CatalogService) AddRequirement(ctx context.Context, name string, icon ImageUpload) (*models.RequirementIcon, error) {
	name = strings.TrimSpace(name)
	if name == "" || icon.Filename == "" || icon.Open == nil {
		return nil, invalid("Requirement name and icon are required.")
	}
	if s.icons == nil {
		return nil, errors.New("icon store not configured")
	}

	key := "requirements/" + uuid.NewString() + "_" + SafeFilename(icon.Filename)
	r, err := icon.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read icon")
	}
	err = s.icons.Put(ctx, key, r, icon.ContentType)
	r.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store icon")
	}

	req := models.RequirementIcon{Name: name, Filename: key}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		if derr := s.icons.Delete(ctx, key); derr != nil {
			log.Warn().Err(derr).Str("key", key).Msg("Failed to delete orphaned icon")
		}
		return nil, errors.Wrap(err, "failed to save requirement")
	}
	return &req, nil
}

// DeleteRequirement removes the requirement; its icon is deleted best-effort
func (s *CatalogService) DeleteRequirement(ctx context.Context, id uint) error {
	var req models.RequirementIcon
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return notFound(err, "requirement")
	}
	if err := s.db.WithContext(ctx).Delete(&req).Error; err != nil {
		return errors.Wrap(err, "failed to delete requirement")
	}
	if s.icons != nil {
		if err := s.icons.Delete(ctx, req.Filename); err != nil {
			log.Warn().Err(err).Str("key", req.Filename).Msg("Failed to delete icon")
		}
	}
	return nil
}
