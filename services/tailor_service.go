package services

import (
	"context"
	"strings"

	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultTailorStatus = "Active"

type TailorInput struct {
	Name   string `json:"name" form:"name"`
	Role   string `json:"role" form:"role"`
	Phone  string `json:"phone" form:"phone"`
	Status string `json:"status" form:"status"`
}

type TailorService struct {
	db    *gorm.DB
	codes *CodeGenerator
}

func NewTailorService(db *gorm.DB, codes *CodeGenerator) *TailorService {
	return &TailorService{db: db, codes: codes}
}

func (s *TailorService) List(ctx context.Context) ([]models.Tailor, error) {
	var tailors []models.Tailor
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&tailors).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tailors")
	}
	return tailors, nil
}

// Create issues the next TLR code and stores the tailor. The role doubles
// as the tailor's team.
func (s *TailorService) Create(ctx context.Context, in TailorInput) (*models.Tailor, error) {
	tailor, err := in.toTailor()
	if err != nil {
		return nil, err
	}
	err = s.codes.Issue(ctx, FamilyTailor, func(tx *gorm.DB, attempt int) error {
		code, err := s.codes.NextTailorCode(tx, attempt)
		if err != nil {
			return err
		}
		tailor.ID = 0
		tailor.TailorCode = code
		return tx.Create(&tailor).Error
	})
	if err != nil {
		return nil, err
	}
	return &tailor, nil
}

func (s *TailorService) Update(ctx context.Context, id uint, in TailorInput) (*models.Tailor, error) {
	var existing models.Tailor
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return nil, notFound(err, "tailor")
	}
	updated, err := in.toTailor()
	if err != nil {
		return nil, err
	}
	existing.Name, existing.Role, existing.Phone = updated.Name, updated.Role, updated.Phone
	existing.Status, existing.Team = updated.Status, updated.Team
	if err := s.db.WithContext(ctx).Model(&existing).
		Select("name", "role", "phone", "status", "team").
		Updates(&existing).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update tailor")
	}
	return &existing, nil
}

// LookupName resolves a tailor code to a name, "" when unknown
func (s *TailorService) LookupName(ctx context.Context, code string) (string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.Tailor{}).
		Where("tailor_code = ?", strings.TrimSpace(code)).
		Limit(1).
		Pluck("name", &names).Error
	if err != nil {
		return "", errors.Wrap(err, "failed to look up tailor")
	}
	return first(names), nil
}

func (in TailorInput) toTailor() (models.Tailor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Tailor{}, invalid("Tailor name is required.")
	}
	t := models.Tailor{
		Name:   name,
		Role:   strings.TrimSpace(in.Role),
		Phone:  strings.TrimSpace(in.Phone),
		Status: strings.TrimSpace(in.Status),
	}
	if t.Status == "" {
		t.Status = defaultTailorStatus
	}
	t.Team = trimOrNil(t.Role)
	return t, nil
}
