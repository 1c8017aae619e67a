package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	currencyRunes = regexp.MustCompile(`[₹$€£,\s]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// maxDescriptionLen bounds cleaned descriptions.
const maxDescriptionLen = 500

// ParseAmount parses a textual amount into a non-negative magnitude.
// Currency symbols and thousands separators are stripped and parenthesized
// values are read as accounting-notation negatives. The sign is discarded;
// use parseSignedAmount when the caller needs it.
func ParseAmount(value string) (decimal.Decimal, error) {
	mag, _, err := parseSignedAmount(value)
	return mag, err
}

// parseSignedAmount returns the magnitude and whether the raw value was
// negative (leading minus or accounting parentheses).
func parseSignedAmount(value string) (decimal.Decimal, bool, error) {
	cleaned := currencyRunes.ReplaceAllString(strings.TrimSpace(value), "")

	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}

	if cleaned == "" {
		return decimal.Zero, false, fmt.Errorf("cannot parse amount: %q", value)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("cannot parse amount: %q", value)
	}

	return d.Abs(), d.IsNegative(), nil
}

// dateFormats is the ordered list of fixed layouts tried before the flexible
// fallback. Order matters: day-month-year is preferred over month/day/year
// for ambiguous slash dates, matching the ingestion sources we see.
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// flexibleFormats back the general-purpose fallback for timestamped values.
var flexibleFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
}

// ParseDate tries the fixed layouts in order, then the flexible fallback.
func ParseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range flexibleFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse date: %q", value)
}

// CleanDescription collapses internal whitespace and truncates to 500
// characters. Missing values become the literal "Unknown".
func CleanDescription(value string) string {
	desc := whitespaceRun.ReplaceAllString(strings.TrimSpace(value), " ")
	if desc == "" {
		return "Unknown"
	}

	runes := []rune(desc)
	if len(runes) > maxDescriptionLen {
		desc = string(runes[:maxDescriptionLen])
	}
	return desc
}
