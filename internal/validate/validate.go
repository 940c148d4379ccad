// Package validate converts raw user input into typed expense fields.
//
// Every function is pure. Callers that prompt interactively keep asking until
// a value validates or the user cancels; validation itself never loops.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bytebank/internal/models"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a category name
// before we stop suggesting it.
const maxSuggestDistance = 2

// Date parses text as a YYYY-MM-DD calendar date.
func Date(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: a date is required (YYYY-MM-DD)", models.ErrInvalidDate)
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", models.ErrInvalidDate, s)
	}
	return d, nil
}

// OptionalDate is Date for fields where an empty answer means "not given".
// It returns nil, nil for empty input.
func OptionalDate(text string) (*time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	d, err := Date(text)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ResolveDate returns *d, or the calendar day of now when d is nil.
func ResolveDate(d *time.Time, now time.Time) time.Time {
	if d != nil {
		return *d
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Category trims and title-cases text, then checks it against the fixed set.
func Category(text string) (models.Category, error) {
	c := models.Category(TitleCase(strings.TrimSpace(text)))
	if c != "" && c.Valid() {
		return c, nil
	}

	names := make([]string, len(models.Categories))
	for i, v := range models.Categories {
		names[i] = string(v)
	}
	msg := fmt.Sprintf("choose category: %s", strings.Join(names, ", "))
	if s := suggest(string(c)); s != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", s)
	}
	return "", fmt.Errorf("%w: %q: %s", models.ErrInvalidCategory, strings.TrimSpace(text), msg)
}

func suggest(name string) models.Category {
	if name == "" {
		return ""
	}
	best, bestDist := models.Category(""), maxSuggestDistance+1
	for _, c := range models.Categories {
		if d := levenshtein.ComputeDistance(name, string(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Amount parses text as a strictly positive real number.
func Amount(text string) (float64, error) {
	s := strings.TrimSpace(text)
	// ParseFloat also takes hex floats such as 0x1p3
	if strings.ContainsAny(s, "xX") {
		return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", models.ErrInvalidAmount, s)
	}
	return v, nil
}

// TitleCase upper-cases the first ASCII letter of every word and lower-cases
// the rest. A word starts after any non-letter.
func TitleCase(s string) string {
	b := []byte(s)
	prevLetter := false
	for i, ch := range b {
		isUpper := ch >= 'A' && ch <= 'Z'
		isLower := ch >= 'a' && ch <= 'z'
		switch {
		case !prevLetter && isLower:
			b[i] = ch - 'a' + 'A'
		case prevLetter && isUpper:
			b[i] = ch - 'A' + 'a'
		}
		prevLetter = isUpper || isLower
	}
	return string(b)
}
