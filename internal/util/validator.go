package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MsgRequired    = "This field is required."
	MsgNull        = "This field may not be null."
	MsgBlank       = "This field may not be blank."
	MsgInvalidNum  = "A valid number is required."
	MsgInvalidDate = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

	DateLayout = "2006-01-02"

	// Money columns are decimal(10,2).
	AmountMaxDigits = 10
	AmountPlaces    = 2
)

// InvalidPK is the message for a foreign key that names no record.
func InvalidPK(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// ValidateChoice checks that v is one of choices.
func ValidateChoice(v string, choices ...string) error {
	for _, c := range choices {
		if v == c {
			return nil
		}
	}
	return fmt.Errorf("\"%s\" is not a valid choice.", v)
}

// ValidateText checks a required string is not blank and fits in max characters.
func ValidateText(v string, maxLen int) error {
	if strings.TrimSpace(v) == "" {
		return errors.New(MsgBlank)
	}
	if utf8.RuneCountInString(v) > maxLen {
		return fmt.Errorf("Ensure this field has no more than %d characters.", maxLen)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.New(MsgInvalidDate)
	}
	return t, nil
}

// FormatDate renders a stored date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseAmount decodes a money value sent either as a JSON number or a string
// and checks it fits decimal(10,2).
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return decimal.Decimal{}, errors.New(MsgNull)
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, errors.New(MsgInvalidNum)
		}
		s = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.New(MsgInvalidNum)
	}
	if err := ValidateDecimal(d, AmountMaxDigits, AmountPlaces); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}

// ValidateDecimal enforces a precision of maxDigits with at most places
// fractional digits, counting digits as written (12.50 has two places).
func ValidateDecimal(d decimal.Decimal, maxDigits, places int) error {
	digits := len(new(big.Int).Abs(d.Coefficient()).String())
	exp := int(d.Exponent())

	var total, fraction int
	switch {
	case exp >= 0:
		total, fraction = digits+exp, 0
	case -exp > digits:
		total, fraction = -exp, -exp
	default:
		total, fraction = digits, -exp
	}
	whole := total - fraction

	if total > maxDigits {
		return fmt.Errorf("Ensure that there are no more than %d digits in total.", maxDigits)
	}
	if fraction > places {
		return fmt.Errorf("Ensure that there are no more than %d decimal places.", places)
	}
	if whole > maxDigits-places {
		return fmt.Errorf("Ensure that there are no more than %d digits before the decimal point.", maxDigits-places)
	}
	return nil
}

// FormatAmount renders a money value with exactly two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}
