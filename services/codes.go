package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"tailorshop-backend/metrics"
	"tailorshop-backend/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CodeFamily string

const (
	FamilyTailor    CodeFamily = "tailor"
	FamilyInventory CodeFamily = "inventory"
	FamilyVendor    CodeFamily = "vendor"
	FamilyExpense   CodeFamily = "expense"
)

// CodeFamilies lists every family the generator knows
var CodeFamilies = []CodeFamily{FamilyTailor, FamilyInventory, FamilyVendor, FamilyExpense}

func ParseCodeFamily(s string) (CodeFamily, error) {
	for _, f := range CodeFamilies {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", invalid("Unknown code family %q.", s)
}

const (
	maxCodeAttempts  = 5
	defaultInvPrefix = "INV"
)

// CodeGenerator derives the next human-readable code of each family from
// the codes already issued. Code columns are unique; Issue serializes
// issuance per family and retries when an insert still collides.
type CodeGenerator struct {
	db    *gorm.DB
	locks map[CodeFamily]*sync.Mutex
}

func NewCodeGenerator(db *gorm.DB) *CodeGenerator {
	locks := make(map[CodeFamily]*sync.Mutex, len(CodeFamilies))
	for _, f := range CodeFamilies {
		locks[f] = &sync.Mutex{}
	}
	return &CodeGenerator{db: db, locks: locks}
}

// Issue runs fn in a transaction. When the transaction fails on a unique
// violation it is retried with the next attempt number, up to five times.
// fn must pass attempt to the Next* method it uses.
func (g *CodeGenerator) Issue(ctx context.Context, family CodeFamily, fn func(tx *gorm.DB, attempt int) error) error {
	mu, ok := g.locks[family]
	if !ok {
		return errors.Errorf("unknown code family %q", family)
	}
	mu.Lock()
	defer mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(tx, attempt)
		})
		if err == nil {
			metrics.RecordCodeIssued(string(family))
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		metrics.RecordCodeRetry(string(family))
		log.Warn().Err(err).Str("family", string(family)).Int("attempt", attempt+1).Msg("Code collision, retrying")
	}
	return errors.Wrapf(ErrCodeExhausted, "%s", family)
}

// Preview returns the code the next creation would get, without reserving
// it. name is only used by the inventory family.
func (g *CodeGenerator) Preview(ctx context.Context, family CodeFamily, name string) (string, error) {
	db := g.db.WithContext(ctx)
	switch family {
	case FamilyTailor:
		return g.NextTailorCode(db, 0)
	case FamilyVendor:
		return g.NextVendorCode(db, 0)
	case FamilyExpense:
		return g.NextExpenseNo(db, 0)
	case FamilyInventory:
		return g.NextInventoryCode(db, name, 0)
	}
	return "", errors.Errorf("unknown code family %q", family)
}

// NextTailorCode is TLR + (tailor count + 1), three digits
func (g *CodeGenerator) NextTailorCode(tx *gorm.DB, attempt int) (string, error) {
	var count int64
	if err := tx.Model(&models.Tailor{}).Count(&count).Error; err != nil {
		return "", errors.Wrap(err, "failed to count tailors")
	}
	return formatTailorCode(count, attempt), nil
}

// NextVendorCode increments the latest vendor code, falling back to the
// vendor count when there is none or it does not parse.
func (g *CodeGenerator) NextVendorCode(tx *gorm.DB, attempt int) (string, error) {
	var latest []string
	if err := tx.Model(&models.Vendor{}).Order("id DESC").Limit(1).Pluck("vendor_code", &latest).Error; err != nil {
		return "", errors.Wrap(err, "failed to load latest vendor code")
	}
	var count int64
	if err := tx.Model(&models.Vendor{}).Count(&count).Error; err != nil {
		return "", errors.Wrap(err, "failed to count vendors")
	}
	return nextVendorCode(first(latest), count, attempt), nil
}

// NextExpenseNo increments the latest expense number
func (g *CodeGenerator) NextExpenseNo(tx *gorm.DB, attempt int) (string, error) {
	var latest []string
	if err := tx.Model(&models.Expense{}).Order("id DESC").Limit(1).Pluck("expense_no", &latest).Error; err != nil {
		return "", errors.Wrap(err, "failed to load latest expense number")
	}
	return nextExpenseNo(first(latest), attempt), nil
}

// NextInventoryCode is <PFX>-### where PFX comes from the item name and the
// number follows the highest code already issued under that prefix.
func (g *CodeGenerator) NextInventoryCode(tx *gorm.DB, name string, attempt int) (string, error) {
	prefix := InventoryPrefix(name)
	var codes []string
	if err := tx.Model(&models.InventoryItem{}).
		Where("inventory_code LIKE ?", prefix+"-%").
		Pluck("inventory_code", &codes).Error; err != nil {
		return "", errors.Wrap(err, "failed to load inventory codes")
	}
	return nextInventoryCode(prefix, codes, attempt), nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func formatTailorCode(count int64, attempt int) string {
	return fmt.Sprintf("TLR%03d", count+1+int64(attempt))
}

func nextVendorCode(latest string, count int64, attempt int) string {
	next := count + 1
	if strings.HasPrefix(latest, "VND") {
		if n, err := strconv.ParseInt(latest[3:], 10, 64); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("VND%04d", next+int64(attempt))
}

func nextExpenseNo(latest string, attempt int) string {
	next := int64(1)
	if latest != "" {
		parts := strings.Split(latest, "-")
		if n, err := strconv.ParseInt(parts[len(parts)-1], 10, 64); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("EXP-%04d", next+int64(attempt))
}

func nextInventoryCode(prefix string, codes []string, attempt int) string {
	var highest int64
	for _, code := range codes {
		suffix := strings.TrimPrefix(code, prefix+"-")
		if n, err := strconv.ParseInt(suffix, 10, 64); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, highest+1+int64(attempt))
}

// InventoryPrefix upper-cases name, keeps letters and digits and takes the
// first three. When letters remain, leading digits are dropped so
// "100% Silk!" gives "SIL". An empty result becomes "INV".
func InventoryPrefix(name string) string {
	var cleaned []rune
	hasLetter := false
	for _, ch := range strings.ToUpper(name) {
		if ch > unicode.MaxASCII {
			continue
		}
		switch {
		case unicode.IsLetter(ch):
			hasLetter = true
			cleaned = append(cleaned, ch)
		case unicode.IsDigit(ch):
			cleaned = append(cleaned, ch)
		}
	}
	if hasLetter {
		for len(cleaned) > 0 && unicode.IsDigit(cleaned[0]) {
			cleaned = cleaned[1:]
		}
	}
	if len(cleaned) == 0 {
		return defaultInvPrefix
	}
	if len(cleaned) > 3 {
		cleaned = cleaned[:3]
	}
	return string(cleaned)
}
