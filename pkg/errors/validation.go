package errors

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// dateLayout is the calendar format used for sprint boundaries.
const dateLayout = "2006-01-02"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateName checks a human-facing label (project title, member name, task title).
// Empty names are allowed; the UI shows a placeholder for them.
func ValidateName(name string) error {
	if len(name) > 200 {
		return New(ErrCodeInvalidInput, "name too long (max 200 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "name contains control characters")
		}
	}
	return nil
}

// ValidateColor checks a CSS hex colour such as "#6750A4".
// The empty string means "no colour" and is accepted.
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if !hexColor.MatchString(c) {
		return New(ErrCodeInvalidColor, "invalid colour %q (want #RGB, #RRGGBB or #RRGGBBAA)", c)
	}
	return nil
}

// ValidateDateRange checks that start and end are YYYY-MM-DD dates with start <= end.
func ValidateDateRange(start, end string) error {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return New(ErrCodeInvalidDate, "invalid start date %q", start)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return New(ErrCodeInvalidDate, "invalid end date %q", end)
	}
	if e.Before(s) {
		return New(ErrCodeInvalidDate, "end date %s is before start date %s", end, start)
	}
	return nil
}

// ValidateID rejects identifiers that cannot be used as store keys or URL segments.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "id too long (max 128 characters)")
	}
	if strings.ContainsAny(id, "/\\\x00") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "id %q contains invalid characters", id)
	}
	return nil
}
