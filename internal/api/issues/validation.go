package issues

import (
	"errors"
	"strings"
)

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	return nil
}
