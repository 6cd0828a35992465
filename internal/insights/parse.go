// Package insights implements the derived-analytics primitives over a lead
// dataset: week bucketing, lead-time deltas, funnel and workload aggregation,
// stagnation scoring, KPI rollups, and milestone progress. Every computation
// is a pure function over an already-materialized record slice; cell-level
// irregularities degrade to null/zero instead of failing the analysis.
package insights

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

// dateLayouts are tried in order when parsing cell dates. The sheet mixes
// slash and hyphen forms with and without zero padding.
var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"2006/1/2",
	"2006-1-2",
	time.RFC3339,
}

// ParseDate parses a cell value as a calendar date. The bool reports whether
// any supported layout matched; callers treat false as "no date" rather than
// an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const millisPerDay = 86_400_000

// DayDelta returns the elapsed days from start to end, rounded up, or nil
// when either value is empty or unparseable. Rounding up means any overshoot
// past a day boundary counts as a full extra day; negative deltas are legal
// when end precedes start.
func DayDelta(start, end string) *int {
	s, ok := ParseDate(start)
	if !ok {
		return nil
	}
	e, ok := ParseDate(end)
	if !ok {
		return nil
	}
	d := int(math.Ceil(float64(e.Sub(s).Milliseconds()) / millisPerDay))
	return &d
}

// ParseCurrencyOrZero strips every character that is not a digit, '.' or '-'
// and parses the leading numeric prefix of what remains. Empty or non-numeric
// input yields 0.
func ParseCurrencyOrZero(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return leadingFloat(b.String())
}

// ParseProbabilityOrZero parses the leading numeric prefix of a probability
// label such as "70%" or "70". Absent or unparseable input yields 0.
func ParseProbabilityOrZero(s string) float64 {
	return leadingFloat(strings.TrimSpace(s))
}

// leadingFloat parses the longest numeric prefix of s: an optional sign,
// digits, and at most one decimal point. It mirrors how a permissive float
// scanner reads "123abc" as 123 and "1.2.3" as 1.2.
func leadingFloat(s string) float64 {
	end := 0
	seenDot := false
	seenDigit := false
	for i, r := range s {
		switch {
		case r == '-' && i == 0:
		case r == '.' && !seenDot:
			seenDot = true
		case r >= '0' && r <= '9':
			seenDigit = true
		default:
			goto parse
		}
		end = i + 1
	}
parse:
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

// AmountOf resolves a record's deal amount: the quote field when present,
// falling back to the plan field. Both go through currency parsing.
func AmountOf(r dataset.Record) float64 {
	v := r.Get(dataset.FieldQuote)
	if v == "" {
		v = r.Get(dataset.FieldPlan)
	}
	return ParseCurrencyOrZero(v)
}

// RoundRate returns round(num/den*100) as an integer percentage, 0 when the
// denominator is 0. Diverging ratios never surface as NaN or infinity.
func RoundRate(num, den float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(num / den * 100))
}

// Delay severity bands for lead-time display.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityNormal = "normal"
)

// DelaySeverity bands an elapsed-day count: over 30 days is high, over 14
// medium, otherwise normal.
func DelaySeverity(days int) string {
	switch {
	case days > 30:
		return SeverityHigh
	case days > 14:
		return SeverityMedium
	default:
		return SeverityNormal
	}
}
