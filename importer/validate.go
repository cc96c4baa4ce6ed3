package importer

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"scoutdesk/internal/timeutil"
)

const (
	minAge    = 16
	maxAge    = 40
	minHeight = 150
	maxHeight = 220
	minWeight = 50
	maxWeight = 120
)

var emailValidator = validator.New()

// ValidateRow returns every rule the record breaks. It does not stop at the
// first violation. Ages are computed against today.
func ValidateRow(record CanonicalRecord, row int, today time.Time) []ValidationError {
	var errs []ValidationError
	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{Row: row, Message: fmt.Sprintf(format, args...)})
	}

	if record.FirstName == "" {
		fail("First name is required")
	}
	if record.LastName == "" {
		fail("Last name is required")
	}

	switch {
	case record.DateOfBirth == "":
		fail("Date of birth is required")
	default:
		birth, ok := timeutil.ParseISODate(record.DateOfBirth)
		if !ok {
			fail("Date of birth must be in YYYY-MM-DD format")
			break
		}
		if age := timeutil.AgeOn(birth, today); age < minAge || age > maxAge {
			fail("Player must be between %d and %d years old", minAge, maxAge)
		}
	}

	if record.Nationality == "" {
		fail("Nationality is required")
	}
	if record.Position == "" {
		fail("Position is required")
	}

	if record.Height != nil && (*record.Height < minHeight || *record.Height > maxHeight) {
		fail("Height must be between %d and %d cm", minHeight, maxHeight)
	}
	if record.Weight != nil && (*record.Weight < minWeight || *record.Weight > maxWeight) {
		fail("Weight must be between %d and %d kg", minWeight, maxWeight)
	}

	if record.Email != "" && emailValidator.Var(record.Email, "email") != nil {
		fail("Invalid email format")
	}

	if record.MarketValue != nil && record.MarketValue.Amount.IsNegative() {
		fail("Market value cannot be negative")
	}

	if record.ContractExpiry != "" {
		if _, ok := timeutil.ParseISODate(record.ContractExpiry); !ok {
			fail("Contract expiry must be in YYYY-MM-DD format")
		}
	}

	for _, field := range Fields() {
		if _, bad := record.Unparsed[field]; bad {
			fail("%s must be a number", fieldLabel(field))
		}
	}

	return errs
}
