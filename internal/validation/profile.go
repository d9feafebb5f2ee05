// Package validation holds input checks shared by registration and profile
// updates.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"sigmat/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	MinPasswordLen = 8
	MaxNameLen     = 60
	MaxBioLen      = 500
	MaxCityLen     = 60
)

// Email checks basic address shape. Deliverability is out of scope.
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return models.NewValidationError("invalid email address")
	}
	return nil
}

// Password enforces the minimum length.
func Password(password string) error {
	if len(password) < MinPasswordLen {
		return models.NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}
	return nil
}

// Name checks the display name.
func Name(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("name is required")
	}
	if len(name) > MaxNameLen {
		return models.NewValidationError(fmt.Sprintf("name too long (max %d characters)", MaxNameLen))
	}
	return nil
}

// Age enforces the platform's age bounds.
func Age(age int) error {
	if age < models.MinAge || age > models.MaxAge {
		return models.NewValidationError(fmt.Sprintf("age must be between %d and %d", models.MinAge, models.MaxAge))
	}
	return nil
}

// Gender accepts the two values the directory filters on.
func Gender(gender string) error {
	if gender != models.GenderMale && gender != models.GenderFemale {
		return models.NewValidationError("gender must be 'male' or 'female'")
	}
	return nil
}
