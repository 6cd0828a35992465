package insights

import (
	"sort"
	"time"

	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

// Stage filter modes for lead-time analysis. Any other value is treated as an
// exact stage match.
const (
	StageModeActiveOnly = "active_only"
	StageModeAll        = "all"
)

// Delta is the elapsed-day distance from the approach date to one milestone
// meeting, banded for display.
type Delta struct {
	Days     int    `json:"days"`
	Severity string `json:"severity"`
}

// LeadTimeRow is one lead's timing profile: the anchor date and the delta to
// each of the five meeting dates. A nil delta means the meeting has no
// parseable date.
type LeadTimeRow struct {
	Company     string    `json:"company"`
	Stage       string    `json:"stage"`
	Probability string    `json:"probability"`
	Approach    string    `json:"approach"`
	Deltas      [5]*Delta `json:"deltas"`
}

// LeadTimes computes lead-time rows over the record set. Rows without an
// approach date are excluded entirely. The stage mode filters first
// (active_only drops the exact lost stage), then the optional exact stage
// and probability filters apply on top; filters compare the raw cell values,
// while empty company, stage, and probability cells fold into the unset
// label on the emitted rows. Rows sort most-recent approach first; rows
// whose approach date fails to parse sort last in input order.
func LeadTimes(records []dataset.Record, mode, stageFilter, probabilityFilter string) []LeadTimeRow {
	type keyed struct {
		row LeadTimeRow
		at  time.Time
		ok  bool
	}
	rows := make([]keyed, 0, len(records))
	for _, r := range records {
		if !r.Has(dataset.FieldApproach) {
			continue
		}
		stage := r.Get(dataset.FieldStage)
		switch mode {
		case StageModeAll, "":
		case StageModeActiveOnly:
			if stage == dataset.StageLost {
				continue
			}
		default:
			if stage != mode {
				continue
			}
		}
		if stageFilter != "" && stage != stageFilter {
			continue
		}
		if probabilityFilter != "" && r.Get(dataset.FieldProbability) != probabilityFilter {
			continue
		}

		anchor := r.Get(dataset.FieldApproach)
		row := LeadTimeRow{
			Company:     orUnset(r.Get(dataset.FieldCompany)),
			Stage:       orUnset(stage),
			Probability: orUnset(r.Get(dataset.FieldProbability)),
			Approach:    anchor,
		}
		for i, field := range dataset.MeetingFields {
			if d := DayDelta(anchor, r.Get(field)); d != nil {
				row.Deltas[i] = &Delta{Days: *d, Severity: DelaySeverity(*d)}
			}
		}
		at, ok := ParseDate(anchor)
		rows = append(rows, keyed{row: row, at: at, ok: ok})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].at.After(rows[j].at)
	})

	out := make([]LeadTimeRow, len(rows))
	for i, k := range rows {
		out[i] = k.row
	}
	return out
}

func orUnset(s string) string {
	if s == "" {
		return dataset.LabelUnset
	}
	return s
}
