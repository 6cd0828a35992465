package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

// WeekAll selects every week in filter inputs.
const WeekAll = "all"

// WeekKey maps a date string to its Monday-anchored week bucket, formatted
// "YYYY/MM/DDの週" with zero-padded month and day. Unparseable or empty input
// yields "" and is excluded from bucketing by callers.
func WeekKey(dateStr string) string {
	t, ok := ParseDate(dateStr)
	if !ok {
		return ""
	}
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	monday := t.AddDate(0, 0, -offset)
	return fmt.Sprintf("%04d/%02d/%02dの週", monday.Year(), monday.Month(), monday.Day())
}

// AvailableWeeks returns the distinct week keys of the records' approach
// dates, sorted descending. Year-first zero-padded keys make string order
// reverse chronological.
func AvailableWeeks(records []dataset.Record) []string {
	keys := lo.FilterMap(records, func(r dataset.Record, _ int) (string, bool) {
		k := WeekKey(r.Get(dataset.FieldApproach))
		return k, k != ""
	})
	keys = lo.Uniq(keys)
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// FilterWeek keeps the records whose approach date falls in the given week
// bucket. An empty key or WeekAll passes everything through unchanged.
func FilterWeek(records []dataset.Record, week string) []dataset.Record {
	if week == "" || week == WeekAll {
		return records
	}
	return lo.Filter(records, func(r dataset.Record, _ int) bool {
		return WeekKey(r.Get(dataset.FieldApproach)) == week
	})
}
