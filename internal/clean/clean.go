// Package clean holds the pure value normalizers applied to raw invoice
// cells before they enter the canonical shipment schema. Every cleaner
// reports "no value" with an ok=false return instead of an error, because
// blank and garbage cells are expected in carrier exports.
package clean

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)
	nonAlnumRe   = regexp.MustCompile(`[^A-Za-z0-9]`)
	nonZipRe     = regexp.MustCompile(`[^0-9-]`)
	keyRunRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

// validStates is the accepted two-letter recipient/origin state set,
// including DC and US territories that appear in carrier files.
var validStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true, "PR": true, "VI": true,
}

// dateLayouts are tried in order; the first successful parse wins.
// Carrier exports mix US slash dates (with and without a time component)
// and ISO dates depending on vendor and export month.
var dateLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-2006",
	"2-Jan-2006",
}

// Currency converts a raw cost cell to a two-place decimal.
// "$1,234.56" -> 1234.56, "($38.33)" -> -38.33 (accounting negative).
// Empty cells return ok=false; so does any cell with no extractable
// numeric substring. The caller flags the record, nothing raises.
func Currency(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || isNullToken(s) {
		return decimal.Zero, false
	}
	neg := strings.Contains(s, "(") && strings.Contains(s, ")")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = nonNumericRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "." {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg && d.IsPositive() {
		d = d.Neg()
	}
	return d.Round(2), true
}

// Date parses a raw cell into a calendar date (UTC midnight). A time
// component, when present, is discarded: invoice dates are calendar dates,
// not instants, and no timezone is ever inferred. Numeric cells are treated
// as Excel serial dates, which excelize yields for unformatted date cells.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || isNullToken(s) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 20000 && serial < 80000 {
		base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		t := base.AddDate(0, 0, int(serial))
		return t, true
	}
	return time.Time{}, false
}

// Key normalizes a string for comparison: lowercased, trimmed, with every
// run of whitespace or punctuation collapsed to a single underscore. The
// same key function serves header-alias resolution and customer-name
// matching so the two sides can never disagree on normalization.
func Key(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = keyRunRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Decimal parses a plain numeric cell (weights, dimensions).
func Decimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || isNullToken(s) {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Zip normalizes to a 5-digit ZIP or 9-digit ZIP+4.
func Zip(raw string) (string, bool) {
	s := nonZipRe.ReplaceAllString(strings.TrimSpace(raw), "")
	s = strings.ReplaceAll(s, "-", "")
	switch {
	case len(s) >= 9:
		return s[:5] + "-" + s[5:9], true
	case len(s) >= 5:
		return s[:5], true
	default:
		return "", false
	}
}

// State uppercases and validates a two-letter US state/territory code.
func State(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !validStates[s] {
		return "", false
	}
	return s, true
}

// Tracking strips a tracking number to its alphanumeric core.
func Tracking(raw string) (string, bool) {
	s := nonAlnumRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" || isNullToken(s) {
		return "", false
	}
	return s, true
}

// Zone drops leading zeros so "02" and "2" collapse to the same zone.
func Zone(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "0")
	return s
}

// Text trims a free-text cell, treating null tokens as empty.
func Text(raw string) string {
	s := strings.TrimSpace(raw)
	if isNullToken(s) {
		return ""
	}
	return s
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "nan", "null", "none", "n/a", "na", "-", "--":
		return true
	}
	return false
}
