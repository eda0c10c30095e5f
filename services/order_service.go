package services

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tailorshop-backend/metrics"
	"tailorshop-backend/models"
	"tailorshop-backend/storage"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultPriority = "Normal"

// ItemRow is one order line
type ItemRow struct {
	ItemType string `json:"itemType"`
	Qty      int    `json:"qty"`
	Notes    string `json:"notes"`
}

// ItemForm is the index-correlated item input of an intake form
type ItemForm struct {
	Types []string
	Qtys  []string
	Notes []string
}

// Rows pairs the slices by index up to the longest one. Quantities that
// are not positive integers become 1.
func (f ItemForm) Rows() []ItemRow {
	n := max(len(f.Types), len(f.Qtys), len(f.Notes))
	rows := make([]ItemRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, ItemRow{
			ItemType: at(f.Types, i),
			Qty:      ParseQty(at(f.Qtys, i)),
			Notes:    at(f.Notes, i),
		})
	}
	return rows
}

// ParseQty parses a positive item quantity, defaulting to 1
func ParseQty(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ImageUpload is one uploaded reference photo
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Label       string
	Open        func() (io.ReadCloser, error)
}

// IntakeInput is a complete order intake submission
type IntakeInput struct {
	Customer       CustomerInput
	Measurements   []MeasurementRow
	DueDate        *time.Time
	Priority       string
	Status         string
	AssignedTailor string
	Notes          string
	Requirements   []string
	AdvanceAmount  decimal.NullDecimal
	TotalAmount    decimal.NullDecimal
	Items          []ItemRow
	Images         []ImageUpload
}

// IntakeResult reports what an intake created
type IntakeResult struct {
	Order           *models.Order `json:"order"`
	CustomerCreated bool          `json:"customerCreated"`
	Measurements    IntakeStats   `json:"measurements"`
}

// UpdateInput is a lifecycle update. Optional values left nil are stored
// as null.
type UpdateInput struct {
	Status         string
	AssignedTailor *string
	DueDate        *time.Time
	Notes          *string
	AdvanceAmount  decimal.NullDecimal
	TotalAmount    decimal.NullDecimal
	Paid           bool
	PickedUp       bool
}

type OrderService struct {
	db           *gorm.DB
	customers    *CustomerService
	registry     *SchemaRegistry
	measurements *MeasurementIntake
	images       storage.Store
	now          func() time.Time
}

func NewOrderService(db *gorm.DB, registry *SchemaRegistry, images storage.Store) *OrderService {
	return &OrderService{
		db:           db,
		customers:    NewCustomerService(db),
		registry:     registry,
		measurements: NewMeasurementIntake(db, registry),
		images:       images,
		now:          time.Now,
	}
}

// Intake upserts the customer, records measurements and creates the order
// with its items and images, all in one transaction. Images are stored
// first and removed again if the transaction fails.
func (s *OrderService) Intake(ctx context.Context, in IntakeInput) (*IntakeResult, error) {
	in.Customer = in.Customer.normalize()
	if in.Customer.Name == "" || in.Customer.Phone == "" {
		return nil, invalid("Customer name and phone are required.")
	}
	status, err := models.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, invalid("Unknown status %q.", in.Status)
	}

	names, err := s.registry.NameIndex(ctx)
	if err != nil {
		return nil, err
	}

	images, err := s.storeImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*IntakeResult, error) {
		s.discardImages(ctx, images)
		return nil, err
	}

	now := s.now()
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fail(errors.Wrap(tx.Error, "failed to begin transaction"))
	}

	customer, created, err := s.customers.Upsert(tx, in.Customer)
	if err != nil {
		tx.Rollback()
		return fail(err)
	}

	_, stats, err := s.measurements.Record(tx, customer.ID, in.Measurements, names, now)
	if err != nil {
		tx.Rollback()
		return fail(err)
	}

	order := models.Order{
		CustomerID:    customer.ID,
		Status:        status,
		Priority:      strings.TrimSpace(in.Priority),
		DueDate:       in.DueDate,
		Notes:         orderNotes(in.Notes, in.Requirements),
		AdvanceAmount: in.AdvanceAmount,
		TotalAmount:   in.TotalAmount,
		CreatedAt:     now,
		Images:        images,
	}
	if order.Priority == "" {
		order.Priority = defaultPriority
	}
	if tailor := strings.TrimSpace(in.AssignedTailor); tailor != "" {
		order.AssignedTailor = &tailor
		order.AssignedTeam = s.teamOf(tx, tailor)
	}
	for _, item := range in.Items {
		itemType := strings.TrimSpace(item.ItemType)
		if itemType == "" {
			continue
		}
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		order.Items = append(order.Items, models.OrderItem{
			ItemType: itemType,
			Qty:      qty,
			Notes:    trimOrNil(item.Notes),
		})
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return fail(errors.Wrap(err, "failed to create order"))
	}

	if err := tx.Commit().Error; err != nil {
		return fail(errors.Wrap(err, "failed to commit order"))
	}

	metrics.RecordOrderCreated()
	log.Info().
		Uint("order_id", order.ID).
		Uint("customer_id", customer.ID).
		Bool("customer_created", created).
		Int("items", len(order.Items)).
		Int("images", len(order.Images)).
		Int("measurements", stats.Saved).
		Msg("Order created")

	order.Customer = customer
	return &IntakeResult{Order: &order, CustomerCreated: created, Measurements: stats}, nil
}

// Update applies a lifecycle update. Plain fields are overwritten;
// milestones are only ever stamped once.
func (s *OrderService) Update(ctx context.Context, id uint, in UpdateInput) (*models.Order, []models.Milestone, error) {
	status, err := models.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, nil, invalid("Unknown status %q.", in.Status)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, nil, errors.Wrap(tx.Error, "failed to begin transaction")
	}

	var order models.Order
	if err := tx.First(&order, id).Error; err != nil {
		tx.Rollback()
		return nil, nil, notFound(err, "order")
	}

	order.Status = status
	order.AssignedTailor = trimPtr(in.AssignedTailor)
	order.DueDate = in.DueDate
	order.Notes = trimPtr(in.Notes)
	order.AdvanceAmount = in.AdvanceAmount
	order.TotalAmount = in.TotalAmount

	triggers := models.Triggers(status, models.TransitionFlags{Paid: in.Paid, PickedUp: in.PickedUp})
	stamped := order.Milestones.Apply(triggers, s.now())

	if err := tx.Model(&order).
		Select("status", "assigned_tailor", "due_date", "notes", "advance_amount", "total_amount",
			"paid_at", "delivered_at", "completed_at", "picked_up_at", "updated_at").
		Updates(&order).Error; err != nil {
		tx.Rollback()
		return nil, nil, errors.Wrap(err, "failed to update order")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, errors.Wrap(err, "failed to commit order update")
	}

	for _, m := range stamped {
		metrics.RecordMilestone(string(m))
	}
	log.Info().Uint("order_id", id).Str("status", string(status)).Interface("stamped", stamped).Msg("Order updated")
	return &order, stamped, nil
}

// Get loads an order with its customer, items and images
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Images").
		First(&order, id).Error
	if err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

// List returns orders newest first, optionally filtered by status
func (s *OrderService) List(ctx context.Context, status string) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Customer").Order("created_at DESC, id DESC")
	if strings.TrimSpace(status) != "" {
		parsed, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, invalid("Unknown status %q.", status)
		}
		query = query.Where("status = ?", parsed)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

// Delete removes the order with its items and images
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	var images []models.OrderImage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return notFound(err, "order")
		}
		if err := tx.Where("order_id = ?", id).Find(&images).Error; err != nil {
			return errors.Wrap(err, "failed to load images")
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete items")
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderImage{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete images")
		}
		return errors.Wrap(tx.Delete(&order).Error, "failed to delete order")
	})
	if err != nil {
		return err
	}
	s.discardImages(ctx, images)
	log.Info().Uint("order_id", id).Msg("Order deleted")
	return nil
}

func (s *OrderService) teamOf(tx *gorm.DB, tailorName string) *string {
	var tailor models.Tailor
	if err := tx.Where("name = ?", tailorName).First(&tailor).Error; err != nil {
		return nil
	}
	return tailor.Team
}

// storeImages writes each distinct upload to the image store. Uploads are
// distinct by filename and size.
func (s *OrderService) storeImages(ctx context.Context, uploads []ImageUpload) ([]models.OrderImage, error) {
	type seenKey struct {
		name string
		size int64
	}
	seen := make(map[seenKey]bool, len(uploads))
	var images []models.OrderImage
	for _, up := range uploads {
		if up.Filename == "" || up.Open == nil {
			continue
		}
		k := seenKey{up.Filename, up.Size}
		if seen[k] {
			continue
		}
		seen[k] = true

		key := "orders/" + uuid.NewString() + "_" + SafeFilename(up.Filename)
		if err := s.putImage(ctx, key, up); err != nil {
			s.discardImages(ctx, images)
			return nil, err
		}
		images = append(images, models.OrderImage{Filename: key, Label: strings.TrimSpace(up.Label)})
	}
	return images, nil
}

func (s *OrderService) putImage(ctx context.Context, key string, up ImageUpload) error {
	if s.images == nil {
		return errors.New("image store not configured")
	}
	r, err := up.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to read upload %s", up.Filename)
	}
	defer r.Close()
	return errors.Wrapf(s.images.Put(ctx, key, r, up.ContentType), "failed to store %s", up.Filename)
}

func (s *OrderService) discardImages(ctx context.Context, images []models.OrderImage) {
	if s.images == nil {
		return
	}
	for _, img := range images {
		if err := s.images.Delete(ctx, img.Filename); err != nil {
			log.Warn().Err(err).Str("key", img.Filename).Msg("Failed to delete stored image")
		}
	}
}

// orderNotes prepends the requirements line to the order notes
func orderNotes(notes string, requirements []string) *string {
	var picked []string
	for _, r := range requirements {
		if r = strings.TrimSpace(r); r != "" {
			picked = append(picked, r)
		}
	}
	notes = strings.TrimSpace(notes)
	if len(picked) > 0 {
		line := "Requirements: " + strings.Join(picked, ", ")
		if notes == "" {
			notes = line
		} else {
			notes = line + "\n" + notes
		}
	}
	return trimOrNil(notes)
}

// SafeFilename reduces a client filename to its base name made of letters,
// digits, dots, dashes and underscores.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '.', ch == '-', ch == '_':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "upload"
	}
	return out
}

func trimOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return trimOrNil(*s)
}
