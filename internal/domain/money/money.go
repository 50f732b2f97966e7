// Package money centralizes amount parsing and the currency/date formatting
// that every dashboard table shares.
package money

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a user-entered amount. Empty input and non-numeric input
// are both rejected; sign and scale are preserved exactly.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatINR renders an amount the way the dashboards display money: rupee
// symbol, two decimal places, Indian digit grouping (₹12,34,567.89).
func FormatINR(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart := s[:len(s)-3]
	frac := s[len(s)-2:]

	grouped := groupIndian(intPart)
	if d.IsNegative() {
		return "-₹" + grouped + "." + frac
	}
	return "₹" + grouped + "." + frac
}

// Indian grouping: rightmost group of three, then groups of two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate parses the date strings the backend sends (LocalDate or
// timestamp). The zero time and false are returned for anything else.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a backend date for display, passing unparseable input
// through unchanged rather than hiding it.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("02 Jan 2006")
}
