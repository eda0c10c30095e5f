package services

import (
	"context"
	"strings"

	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CustomerInput is the customer part of an intake or edit submission
type CustomerInput struct {
	Name  string `json:"name" form:"name"`
	Phone string `json:"phone" form:"phone"`
	Notes string `json:"notes" form:"customer_notes"`
}

func (in CustomerInput) normalize() CustomerInput {
	return CustomerInput{
		Name:  strings.TrimSpace(in.Name),
		Phone: strings.TrimSpace(in.Phone),
		Notes: strings.TrimSpace(in.Notes),
	}
}

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// Upsert creates the customer for a new phone or overwrites name and notes
// of the existing one. It runs inside tx and reports whether the customer
// was created.
func (s *CustomerService) Upsert(tx *gorm.DB, in CustomerInput) (*models.Customer, bool, error) {
	in = in.normalize()
	if in.Name == "" || in.Phone == "" {
		return nil, false, invalid("Customer name and phone are required.")
	}

	customer, created, err := s.upsertOnce(tx, in)
	if isUniqueViolation(err) {
		// a concurrent submission inserted the phone first
		log.Debug().Str("phone", in.Phone).Msg("Customer insert lost race, updating instead")
		customer, created, err = s.upsertOnce(tx, in)
	}
	return customer, created, err
}

func (s *CustomerService) upsertOnce(tx *gorm.DB, in CustomerInput) (*models.Customer, bool, error) {
	var customer models.Customer
	err := tx.Where("phone = ?", in.Phone).First(&customer).Error
	switch {
	case err == nil:
		customer.Name = in.Name
		customer.Notes = in.Notes
		if err := tx.Model(&customer).Select("name", "notes").Updates(&customer).Error; err != nil {
			return nil, false, errors.Wrap(err, "failed to update customer")
		}
		return &customer, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{Name: in.Name, Phone: in.Phone, Notes: in.Notes}
		if err := tx.SavePoint("customer_insert").Error; err != nil {
			return nil, false, errors.Wrap(err, "failed to set savepoint")
		}
		if err := tx.Create(&customer).Error; err != nil {
			tx.RollbackTo("customer_insert")
			return nil, false, errors.Wrap(err, "failed to create customer")
		}
		return &customer, true, nil
	default:
		return nil, false, errors.Wrap(err, "failed to look up customer")
	}
}

// List returns customers by name, filtered by q on name or phone
func (s *CustomerService) List(ctx context.Context, q string) ([]models.Customer, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}
	return customers, nil
}

// Get loads the customer with orders and measurement history, newest first
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("Measurements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		First(&customer, id).Error
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return &customer, nil
}

// Update changes name and phone. Notes are left as they are.
func (s *CustomerService) Update(ctx context.Context, id uint, name, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, notFound(err, "customer")
	}
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, invalid("Customer name and phone are required.")
	}
	customer.Name, customer.Phone = name, phone
	if err := s.db.WithContext(ctx).Model(&customer).Select("name", "phone").Updates(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, invalid("Another customer already uses phone %s.", phone)
		}
		return nil, errors.Wrap(err, "failed to update customer")
	}
	return &customer, nil
}

// Delete removes a customer and their measurements. Customers with orders
// are kept.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			return notFound(err, "customer")
		}
		var orders int64
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return errors.Wrap(err, "failed to count orders")
		}
		if orders > 0 {
			return errors.Wrapf(ErrConflict, "customer has %d orders", orders)
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Measurement{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete measurements")
		}
		return errors.Wrap(tx.Delete(&customer).Error, "failed to delete customer")
	})
}
