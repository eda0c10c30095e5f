package services

import (
	"context"
	"strconv"
	"strings"

	"tailorshop-backend/cache"
	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	defaultMeasurementType = "Shirt"
	defaultFieldKey        = "field"
	maxFieldKeyLen         = 12
)

// FieldSpec is one entry of a subcategory's field list. Key may be empty on
// input, in which case it is derived from Label.
type FieldSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// NameIndex resolves category and subcategory ids to display names
type NameIndex struct {
	Categories    map[uint]string `json:"categories"`
	Subcategories map[uint]string `json:"subcategories"`
}

// Kind composes the measurement kind for a category/subcategory pair.
// Unknown categories fall back to "Category".
func (n NameIndex) Kind(categoryID uint, subcategoryID *uint) string {
	category, ok := n.Categories[categoryID]
	if !ok {
		category = "Category"
	}
	if subcategoryID != nil {
		if sub, ok := n.Subcategories[*subcategoryID]; ok && sub != "" {
			return category + " - " + sub
		}
	}
	return category
}

// SchemaRegistry owns the category -> subcategory -> field hierarchy
type SchemaRegistry struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

func NewSchemaRegistry(db *gorm.DB, c *cache.RedisCache) *SchemaRegistry {
	if c == nil {
		c = cache.Disabled()
	}
	return &SchemaRegistry{db: db, cache: c}
}

func (r *SchemaRegistry) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

// ListSubcategories lists every subcategory, or only those of categoryID
func (r *SchemaRegistry) ListSubcategories(ctx context.Context, categoryID *uint) ([]models.Subcategory, error) {
	query := r.db.WithContext(ctx).Order("name")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	var subcategories []models.Subcategory
	if err := query.Find(&subcategories).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list subcategories")
	}
	return subcategories, nil
}

// ListFields returns the subcategory's fields in sort order
func (r *SchemaRegistry) ListFields(ctx context.Context, subcategoryID uint) ([]FieldSpec, error) {
	key := cache.SchemaFieldsKey(subcategoryID)
	var specs []FieldSpec
	if err := r.cache.Get(ctx, key, &specs); err == nil {
		return specs, nil
	}

	var fields []models.MeasurementField
	if err := r.db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).
		Order("sort_order, field_label").
		Find(&fields).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list fields")
	}

	specs = make([]FieldSpec, 0, len(fields))
	for _, f := range fields {
		specs = append(specs, FieldSpec{Key: f.FieldKey, Label: f.FieldLabel})
	}
	if err := r.cache.Set(ctx, key, specs); err != nil {
		log.Warn().Err(err).Uint("subcategory_id", subcategoryID).Msg("Failed to cache field list")
	}
	return specs, nil
}

// AddCategory creates a category. Adding an existing name returns the
// existing row unchanged.
func (r *SchemaRegistry) AddCategory(ctx context.Context, name, measurementType string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Category name is required.")
	}
	measurementType = strings.TrimSpace(measurementType)
	if measurementType == "" {
		measurementType = defaultMeasurementType
	}

	category := models.Category{Name: name, MeasurementType: measurementType}
	if err := r.db.WithContext(ctx).
		Where(models.Category{Name: name}).
		Attrs(models.Category{MeasurementType: measurementType}).
		FirstOrCreate(&category).Error; err != nil {
		return nil, errors.Wrap(err, "failed to add category")
	}
	r.invalidate(ctx)
	return &category, nil
}

// DeleteCategory removes the category with its subcategories and their
// fields in one transaction.
func (r *SchemaRegistry) DeleteCategory(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err, "category")
		}
		var subIDs []uint
		if err := tx.Model(&models.Subcategory{}).Where("category_id = ?", id).Pluck("id", &subIDs).Error; err != nil {
			return errors.Wrap(err, "failed to load subcategories")
		}
		if len(subIDs) > 0 {
			if err := tx.Where("subcategory_id IN ?", subIDs).Delete(&models.MeasurementField{}).Error; err != nil {
				return errors.Wrap(err, "failed to delete fields")
			}
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Subcategory{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete subcategories")
		}
		return errors.Wrap(tx.Delete(&category).Error, "failed to delete category")
	})
	if err != nil {
		return err
	}
	if err := r.cache.DeletePattern(ctx, cache.SchemaKeyPattern); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate schema cache")
	}
	return nil
}

// AddSubcategory creates a subcategory under categoryID. Adding an existing
// name returns the existing row.
func (r *SchemaRegistry) AddSubcategory(ctx context.Context, categoryID uint, name string) (*models.Subcategory, error) {
	name = strings.TrimSpace(name)
	if categoryID == 0 || name == "" {
		return nil, invalid("Category and subcategory name are required.")
	}

	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		return nil, notFound(err, "category")
	}

	sub := models.Subcategory{CategoryID: categoryID, Name: name}
	if err := r.db.WithContext(ctx).
		Where(models.Subcategory{CategoryID: categoryID, Name: name}).
		FirstOrCreate(&sub).Error; err != nil {
		return nil, errors.Wrap(err, "failed to add subcategory")
	}
	r.invalidate(ctx)
	return &sub, nil
}

// DeleteSubcategory removes the subcategory and its fields
func (r *SchemaRegistry) DeleteSubcategory(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subcategory
		if err := tx.First(&sub, id).Error; err != nil {
			return notFound(err, "subcategory")
		}
		if err := tx.Where("subcategory_id = ?", id).Delete(&models.MeasurementField{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete fields")
		}
		return errors.Wrap(tx.Delete(&sub).Error, "failed to delete subcategory")
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// ReplaceFields discards the subcategory's fields and stores specs in their
// place. Entries with a blank label are skipped; sort order is the position
// in specs.
func (r *SchemaRegistry) ReplaceFields(ctx context.Context, subcategoryID uint, specs []FieldSpec) ([]FieldSpec, error) {
	fields := BuildFields(subcategoryID, specs)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subcategory
		if err := tx.First(&sub, subcategoryID).Error; err != nil {
			return notFound(err, "subcategory")
		}
		if err := tx.Where("subcategory_id = ?", subcategoryID).Delete(&models.MeasurementField{}).Error; err != nil {
			return errors.Wrap(err, "failed to clear fields")
		}
		if len(fields) == 0 {
			return nil
		}
		return errors.Wrap(tx.Create(&fields).Error, "failed to save fields")
	})
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, subcategoryID)

	saved := make([]FieldSpec, 0, len(fields))
	for _, f := range fields {
		saved = append(saved, FieldSpec{Key: f.FieldKey, Label: f.FieldLabel})
	}
	return saved, nil
}

// NameIndex loads the id -> name maps used to compose measurement kinds
func (r *SchemaRegistry) NameIndex(ctx context.Context) (NameIndex, error) {
	var index NameIndex
	if err := r.cache.Get(ctx, cache.SchemaNamesKey, &index); err == nil {
		return index, nil
	}

	var categories []models.Category
	if err := r.db.WithContext(ctx).Select("id", "name").Find(&categories).Error; err != nil {
		return NameIndex{}, errors.Wrap(err, "failed to load category names")
	}
	var subcategories []models.Subcategory
	if err := r.db.WithContext(ctx).Select("id", "name").Find(&subcategories).Error; err != nil {
		return NameIndex{}, errors.Wrap(err, "failed to load subcategory names")
	}

	index = NameIndex{
		Categories:    make(map[uint]string, len(categories)),
		Subcategories: make(map[uint]string, len(subcategories)),
	}
	for _, c := range categories {
		index.Categories[c.ID] = c.Name
	}
	for _, s := range subcategories {
		index.Subcategories[s.ID] = s.Name
	}
	if err := r.cache.Set(ctx, cache.SchemaNamesKey, index); err != nil {
		log.Warn().Err(err).Msg("Failed to cache schema names")
	}
	return index, nil
}

func (r *SchemaRegistry) invalidate(ctx context.Context, subcategoryIDs ...uint) {
	keys := []string{cache.SchemaNamesKey}
	for _, id := range subcategoryIDs {
		keys = append(keys, cache.SchemaFieldsKey(id))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate schema cache")
	}
}

// BuildFields turns submitted specs into field rows for subcategoryID.
// Missing keys are derived from the label; a key already used in this list
// gets a numeric suffix starting at 2.
func BuildFields(subcategoryID uint, specs []FieldSpec) []models.MeasurementField {
	used := make(map[string]bool, len(specs))
	fields := make([]models.MeasurementField, 0, len(specs))
	for idx, spec := range specs {
		label := strings.TrimSpace(spec.Label)
		if label == "" {
			continue
		}
		base := strings.TrimSpace(spec.Key)
		if base == "" {
			base = DeriveFieldKey(label)
		}
		key := base
		for n := 2; used[key]; n++ {
			key = base + strconv.Itoa(n)
		}
		used[key] = true
		fields = append(fields, models.MeasurementField{
			SubcategoryID: subcategoryID,
			FieldKey:      key,
			FieldLabel:    label,
			SortOrder:     idx,
		})
	}
	return fields
}

// DeriveFieldKey lower-cases label, keeps ASCII letters and digits and
// truncates to 12 characters. An empty result becomes "field".
func DeriveFieldKey(label string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(label) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
			if b.Len() == maxFieldKeyLen {
				break
			}
		}
	}
	if b.Len() == 0 {
		return defaultFieldKey
	}
	return b.String()
}
