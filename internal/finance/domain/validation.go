package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

const (
	minDescriptionLength = 3
	maxDescriptionLength = 255
	maxCategoryNameLen   = 100
	DefaultBudgetColor   = "#6366F1"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// maxValue matches NUMERIC(12,2).
var maxValue = decimal.New(1, 10)

func validateDescription(description string) error {
	d := strings.TrimSpace(description)
	if len(d) < minDescriptionLength {
		return errors.NewValidationError("Description must be at least 3 characters long")
	}
	if len(d) > maxDescriptionLength {
		return errors.NewValidationError("Description must be of length less than 255")
	}
	return nil
}

func validateValue(value decimal.Decimal) error {
	if !value.IsPositive() {
		return errors.NewValidationError("Value must be a number greater than zero")
	}
	if value.GreaterThanOrEqual(maxValue) {
		return errors.NewValidationError("Value is too large")
	}
	if !value.Equal(value.Round(2)) {
		return errors.NewValidationError("Value must have at most two decimal places")
	}
	return nil
}

func validateMonthValue(value int) error {
	if value < 1 || value > 12 {
		return errors.NewValidationError("Month must be between 1 and 12")
	}
	return nil
}

func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return errors.NewValidationError("Color must be a hex value like #6366F1")
	}
	return nil
}

func validateCategoryName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return errors.NewValidationError("Name is required")
	}
	if len(n) > maxCategoryNameLen {
		return errors.NewValidationError("Name must be of length less than 100")
	}
	return nil
}

func validateID(id int64, field string) error {
	if id <= 0 {
		return errors.NewValidationError(field + " is required")
	}
	return nil
}
