package services

import (
	"context"
	"strings"
	"time"

	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendorInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// VendorSummary is a vendor with its purchase totals
type VendorSummary struct {
	models.Vendor
	Spent       decimal.Decimal `json:"spent"`
	LastOrderAt *time.Time      `json:"lastOrderAt"`
}

// PurchaseLine is one material line of a purchase
type PurchaseLine struct {
	MaterialName string          `json:"materialName"`
	Qty          decimal.Decimal `json:"qty"`
	UOMID        *uint           `json:"uomId"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

type VendorService struct {
	db    *gorm.DB
	codes *CodeGenerator
	now   func() time.Time
}

func NewVendorService(db *gorm.DB, codes *CodeGenerator) *VendorService {
	return &VendorService{db: db, codes: codes, now: time.Now}
}

// List returns vendors newest first with what was spent at each
func (s *VendorService) List(ctx context.Context) ([]VendorSummary, error) {
	var vendors []models.Vendor
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&vendors).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list vendors")
	}

	var purchases []models.VendorPurchase
	if err := s.db.WithContext(ctx).Select("vendor_id", "total_price", "purchased_at").Find(&purchases).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load purchases")
	}
	spent := make(map[uint]decimal.Decimal)
	last := make(map[uint]time.Time)
	for _, p := range purchases {
		spent[p.VendorID] = spent[p.VendorID].Add(p.TotalPrice)
		if p.PurchasedAt.After(last[p.VendorID]) {
			last[p.VendorID] = p.PurchasedAt
		}
	}

	summaries := make([]VendorSummary, 0, len(vendors))
	for _, v := range vendors {
		summary := VendorSummary{Vendor: v, Spent: spent[v.ID]}
		if at, ok := last[v.ID]; ok {
			summary.LastOrderAt = &at
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *VendorService) Get(ctx context.Context, id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.WithContext(ctx).
		Preload("Purchases", func(db *gorm.DB) *gorm.DB { return db.Order("purchased_at DESC") }).
		First(&vendor, id).Error
	if err != nil {
		return nil, notFound(err, "vendor")
	}
	return &vendor, nil
}

// Create issues the next VND code and stores the vendor
func (s *VendorService) Create(ctx context.Context, in VendorInput) (*models.Vendor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Vendor name is required.")
	}
	var vendor models.Vendor
	err := s.codes.Issue(ctx, FamilyVendor, func(tx *gorm.DB, attempt int) error {
		code, err := s.codes.NextVendorCode(tx, attempt)
		if err != nil {
			return err
		}
		vendor = models.Vendor{
			VendorCode: code,
			Name:       name,
			Phone:      trimOrNil(in.Phone),
			Email:      trimOrNil(in.Email),
			Address:    trimOrNil(in.Address),
			CreatedAt:  s.now(),
		}
		return tx.Create(&vendor).Error
	})
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *VendorService) Update(ctx context.Context, id uint, in VendorInput) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.WithContext(ctx).First(&vendor, id).Error; err != nil {
		return nil, notFound(err, "vendor")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Vendor name is required.")
	}
	vendor.Name = name
	vendor.Phone = trimOrNil(in.Phone)
	vendor.Email = trimOrNil(in.Email)
	vendor.Address = trimOrNil(in.Address)
	if err := s.db.WithContext(ctx).Model(&vendor).
		Select("name", "phone", "email", "address").
		Updates(&vendor).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update vendor")
	}
	return &vendor, nil
}

// Delete removes the vendor together with its purchases
func (s *VendorService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.First(&vendor, id).Error; err != nil {
			return notFound(err, "vendor")
		}
		if err := tx.Where("vendor_id = ?", id).Delete(&models.VendorPurchase{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete purchases")
		}
		return errors.Wrap(tx.Delete(&vendor).Error, "failed to delete vendor")
	})
}

// ListPurchases returns every purchase newest first with vendor and unit
func (s *VendorService) ListPurchases(ctx context.Context) ([]models.VendorPurchase, error) {
	var purchases []models.VendorPurchase
	if err := s.db.WithContext(ctx).
		Preload("Vendor").
		Preload("UOM").
		Order("purchased_at DESC, id DESC").
		Find(&purchases).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list purchases")
	}
	return purchases, nil
}

func (s *VendorService) GetPurchase(ctx context.Context, id uint) (*models.VendorPurchase, error) {
	var purchase models.VendorPurchase
	if err := s.db.WithContext(ctx).Preload("Vendor").Preload("UOM").First(&purchase, id).Error; err != nil {
		return nil, notFound(err, "purchase")
	}
	return &purchase, nil
}

// AddPurchases records material lines bought from vendorID. Lines without a
// material name are ignored; at least one is required.
func (s *VendorService) AddPurchases(ctx context.Context, vendorID uint, lines []PurchaseLine) ([]models.VendorPurchase, error) {
	if vendorID == 0 {
		return nil, invalid("Vendor is required.")
	}
	now := s.now()
	var purchases []models.VendorPurchase
	for _, line := range lines {
		name := strings.TrimSpace(line.MaterialName)
		if name == "" {
			continue
		}
		purchases = append(purchases, models.VendorPurchase{
			VendorID:     vendorID,
			MaterialName: name,
			Qty:          line.Qty,
			UOMID:        nonZero(line.UOMID),
			UnitPrice:    line.UnitPrice,
			TotalPrice:   line.Qty.Mul(line.UnitPrice),
			PurchasedAt:  now,
		})
	}
	if len(purchases) == 0 {
		return nil, invalid("At least one material is required.")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vendor models.Vendor
		if err := tx.First(&vendor, vendorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("Vendor is required.")
			}
			return errors.Wrap(err, "failed to load vendor")
		}
		return errors.Wrap(tx.Create(&purchases).Error, "failed to save purchases")
	})
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// UpdatePurchase rewrites a purchase line and recomputes its total
func (s *VendorService) UpdatePurchase(ctx context.Context, id, vendorID uint, line PurchaseLine) (*models.VendorPurchase, error) {
	var purchase models.VendorPurchase
	if err := s.db.WithContext(ctx).First(&purchase, id).Error; err != nil {
		return nil, notFound(err, "purchase")
	}
	name := strings.TrimSpace(line.MaterialName)
	if vendorID == 0 || name == "" {
		return nil, invalid("Vendor and material are required.")
	}
	purchase.VendorID = vendorID
	purchase.MaterialName = name
	purchase.Qty = line.Qty
	purchase.UOMID = nonZero(line.UOMID)
	purchase.UnitPrice = line.UnitPrice
	purchase.TotalPrice = line.Qty.Mul(line.UnitPrice)
	if err := s.db.WithContext(ctx).Model(&purchase).
		Select("vendor_id", "material_name", "qty", "uom_id", "unit_price", "total_price").
		Updates(&purchase).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update purchase")
	}
	return &purchase, nil
}

func (s *VendorService) DeletePurchase(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.VendorPurchase{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete purchase")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "purchase")
	}
	return nil
}
