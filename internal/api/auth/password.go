package auth

import (
	"errors"
	"unicode"
)

// ValidatePassword checks if a password meets complexity requirements.
// Requirements:
// - Minimum 8 characters
// - At least 1 letter
// - At least 1 digit
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		return errors.New("password must contain at least 1 letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least 1 digit")
	}

	return nil
}
