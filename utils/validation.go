// utils/validation.go
package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// IsE164 reports whether phone is an international number like +919876543210.
// Spaces, dashes and parentheses are ignored.
func IsE164(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return e164.MatchString(cleaned)
}

// ParseOptionalDecimal parses an optional amount. Blank or malformed input
// yields an invalid (null) value instead of an error.
func ParseOptionalDecimal(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseDecimalOrZero parses an amount, treating blank or malformed input as 0
func ParseDecimalOrZero(raw string) decimal.Decimal {
	if d := ParseOptionalDecimal(raw); d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

// ParseOptionalDate accepts a form date (2006-01-02) or an RFC 3339
// timestamp. Blank or malformed input yields nil.
func ParseOptionalDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// ParseOptionalID parses a positive id; anything else is nil
func ParseOptionalID(raw string) *uint {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

// ParseIntOrZero parses an integer, treating blank or malformed input as 0
func ParseIntOrZero(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// IsChecked reports whether a form checkbox value is set ("1", "true", "on")
func IsChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Flag is a checkbox value. Forms send "1"/"on"; JSON may send a boolean,
// a number or a string.
type Flag string

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag(strings.Trim(string(data), `"`))
	return nil
}

func (f Flag) Checked() bool {
	return IsChecked(string(f))
}
