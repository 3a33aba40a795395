// Package parser normalizes the loosely formatted text that odds pages and
// API payloads produce.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Saggygee/ufc-data/models"
)

var (
	dateRe        = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	decimalOddsRe = regexp.MustCompile(`^\d+\.\d+$`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// ExtractDate returns the first slash- or dash-separated date token in text.
// Listing pages show dates in several loose shapes; no stricter parse is
// attempted.
func ExtractDate(text string) (string, bool) {
	match := dateRe.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// FallbackDate formats now in the listing style used when a card shows no
// date of its own.
func FallbackDate(now time.Time) string {
	return now.Format("02 Jan 06")
}

// CleanText collapses whitespace runs to single spaces and trims the ends.
func CleanText(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// Truncate shortens text to at most max characters.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// ParseDecimalOdds parses a strict decimal odds cell such as "1.85".
// Anything that is not digits, a dot, and digits is rejected; returns are
// zero with ok=false in that case.
func ParseDecimalOdds(text string) (float64, bool) {
	if !decimalOddsRe.MatchString(text) {
		return 0, false
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ValidateRecord reports problems with a scraped record. Validation is
// advisory: callers count failures but keep the record, so a partially
// filled row still reaches the output.
func ValidateRecord(r *models.OddsRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(r.Event) == "" {
		return fmt.Errorf("record missing event")
	}
	if strings.TrimSpace(r.Fighter1) == "" || strings.TrimSpace(r.Fighter2) == "" {
		return fmt.Errorf("record missing fighters")
	}
	if r.Fighter1Odds <= 0 || r.Fighter2Odds <= 0 {
		return fmt.Errorf("record has non-positive odds")
	}
	return nil
}
