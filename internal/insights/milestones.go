package insights

import (
	"sort"
	"strings"

	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

// MilestoneNames extracts the milestone column names from a header window,
// dropping blank header cells. The window is the fixed contiguous sub-range
// of the sheet's header row holding progress-tracking fields.
func MilestoneNames(window []string) []string {
	names := []string{}
	for _, h := range window {
		if strings.TrimSpace(h) != "" {
			names = append(names, h)
		}
	}
	return names
}

// ProgressRow is one record's milestone position.
type ProgressRow struct {
	Company        string `json:"company"`
	Assignee       string `json:"assignee"`
	Stage          string `json:"stage"`
	LastIndex      int    `json:"last_index"`
	LastAction     string `json:"last_action"`
	CompletionRate int    `json:"completion_rate"`
}

// MilestoneStat is one milestone column's aggregate: how many records sit at
// exactly this step, and what share of records have it done at all.
type MilestoneStat struct {
	Name        string `json:"name"`
	ActiveCount int    `json:"active_count"`
	Rate        int    `json:"rate"`
}

// Progress is the full milestone report.
type Progress struct {
	Milestones []string        `json:"milestones"`
	Rows       []ProgressRow   `json:"rows"`
	Stats      []MilestoneStat `json:"stats"`
}

// milestoneDone reports whether a cell marks its milestone complete: trimmed
// value non-empty, not "0", and not "false" in any case.
func milestoneDone(v string) bool {
	t := strings.TrimSpace(v)
	return t != "" && t != "0" && !strings.EqualFold(t, "false")
}

// BuildProgress computes per-record milestone positions and per-milestone
// aggregates over records with a company name. The last-done index is the
// highest done column across the whole row, so an out-of-order completion
// still advances the pointer past earlier gaps. Rows sort
// furthest-progressed first.
func BuildProgress(records []dataset.Record, milestones []string) Progress {
	p := Progress{Milestones: milestones, Stats: make([]MilestoneStat, len(milestones))}
	for i, name := range milestones {
		p.Stats[i].Name = name
	}

	doneCounts := make([]int, len(milestones))
	for _, r := range records {
		if !r.Has(dataset.FieldCompany) {
			continue
		}
		row := ProgressRow{
			Company:    r.Get(dataset.FieldCompany),
			Assignee:   r.Get(dataset.FieldAssignee),
			Stage:      r.Get(dataset.FieldStage),
			LastIndex:  -1,
			LastAction: dataset.LabelNotStarted,
		}
		for i, name := range milestones {
			if milestoneDone(r.Get(name)) {
				row.LastIndex = i
				row.LastAction = r.Get(name)
				doneCounts[i]++
			}
		}
		if len(milestones) > 0 {
			row.CompletionRate = RoundRate(float64(row.LastIndex+1), float64(len(milestones)))
		}
		p.Rows = append(p.Rows, row)
	}

	for _, row := range p.Rows {
		if row.LastIndex >= 0 {
			p.Stats[row.LastIndex].ActiveCount++
		}
	}
	for i := range p.Stats {
		p.Stats[i].Rate = RoundRate(float64(doneCounts[i]), float64(len(p.Rows)))
	}

	sort.SliceStable(p.Rows, func(i, j int) bool { return p.Rows[i].LastIndex > p.Rows[j].LastIndex })
	return p
}
