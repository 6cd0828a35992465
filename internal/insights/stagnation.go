package insights

import (
	"sort"
	"time"

	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

// Stagnation reasons, surfaced verbatim in alerts.
const (
	ReasonNoFirstMeeting = "アプローチ後、初回商談なし"
	ReasonNoProgress     = "商談1から進展なし"
)

// StagnantLead is one at-risk record: a bounded 0-100 staleness score with
// the triggering reason and the number of days without movement.
type StagnantLead struct {
	Company  string `json:"company"`
	Assignee string `json:"assignee"`
	Stage    string `json:"stage"`
	Days     int    `json:"days"`
	Score    int    `json:"score"`
	Reason   string `json:"reason"`
}

// Scorer computes stagnation risk. Now is injectable for tests and defaults
// to time.Now.
type Scorer struct {
	Now func() time.Time
}

// Score applies the two-tier staleness heuristic to every record still in
// play (terminal lost and contract stages are skipped):
//
//	tier 1: approached but never met, over 14 days old, score = floor(days*2)
//	tier 2: first meeting held but no second, over 30 days old, score = floor(days*1.5)
//
// The day difference stays fractional until after the multiplier: cell dates
// anchor at midnight while now carries time of day, and a lead 15.6 days
// stale must score 31, not 30. Scores cap at 100. Only the anchor and first
// two meeting dates are ever inspected; later meetings do not affect
// classification. Records scoring 30 or below are dropped, and the ten
// highest scores are returned descending.
func (s *Scorer) Score(records []dataset.Record) []StagnantLead {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	out := []StagnantLead{}
	for _, r := range records {
		stage := r.Get(dataset.FieldStage)
		if stage == dataset.StageLost || stage == dataset.StageContract {
			continue
		}

		lead := StagnantLead{
			Company:  r.Get(dataset.FieldCompany),
			Assignee: r.Get(dataset.FieldAssignee),
			Stage:    stage,
		}
		anchor, hasAnchor := ParseDate(r.Get(dataset.FieldApproach))
		first, hasFirst := ParseDate(r.Get(dataset.FieldMeeting1))
		_, hasSecond := ParseDate(r.Get(dataset.FieldMeeting2))

		switch {
		case hasAnchor && !hasFirst:
			stalled := daysSince(now, anchor)
			if stalled <= 14 {
				continue
			}
			lead.Days = int(stalled)
			lead.Score = capScore(int(stalled * 2))
			lead.Reason = ReasonNoFirstMeeting
		case hasFirst && !hasSecond:
			stalled := daysSince(now, first)
			if stalled <= 30 {
				continue
			}
			lead.Days = int(stalled)
			lead.Score = capScore(int(stalled * 1.5))
			lead.Reason = ReasonNoProgress
		default:
			continue
		}

		if lead.Score > 30 {
			out = append(out, lead)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// daysSince returns the fractional elapsed days from t to now.
func daysSince(now, t time.Time) float64 {
	return now.Sub(t).Hours() / 24
}

func capScore(score int) int {
	if score > 100 {
		return 100
	}
	return score
}
