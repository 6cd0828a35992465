package insights

import (
	"sort"
	"strings"

	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

// FunnelStage is one step of the pipeline funnel.
type FunnelStage struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Funnel carries the staged counts plus the conversion rate between each
// adjacent pair: Conversions[i] is the percentage flowing from Stages[i] to
// Stages[i+1], 0 when the upstream stage is empty.
type Funnel struct {
	Stages      []FunnelStage `json:"stages"`
	Conversions []int         `json:"conversions"`
}

// BuildFunnel counts records per funnel stage. Stage cells hold composite
// strings, so matching is substring containment and a record may count toward
// several stages at once. The final contract stage additionally counts any
// record whose contract field is filled, regardless of its stage cell.
func BuildFunnel(records []dataset.Record) Funnel {
	stages := make([]FunnelStage, len(dataset.FunnelStages))
	for i, label := range dataset.FunnelStages {
		n := 0
		for _, r := range records {
			if i == len(dataset.FunnelStages)-1 {
				if IsWon(r) {
					n++
				}
				continue
			}
			if strings.Contains(r.Get(dataset.FieldStage), label) {
				n++
			}
		}
		stages[i] = FunnelStage{Label: label, Count: n}
	}

	conversions := make([]int, 0, len(stages)-1)
	for i := 0; i+1 < len(stages); i++ {
		conversions = append(conversions, RoundRate(float64(stages[i+1].Count), float64(stages[i].Count)))
	}
	return Funnel{Stages: stages, Conversions: conversions}
}

// StaffLoad is one assignee's workload: all owned records and the subset not
// in the terminal lost stage.
type StaffLoad struct {
	Assignee string `json:"assignee"`
	Total    int    `json:"total"`
	Active   int    `json:"active"`
}

// BuildWorkload groups records by assignee and ranks the five busiest by
// active count. Records without an assignee fold into the unset label.
func BuildWorkload(records []dataset.Record) []StaffLoad {
	byAssignee := map[string]*StaffLoad{}
	order := []string{}
	for _, r := range records {
		name := r.Get(dataset.FieldAssignee)
		if name == "" {
			name = dataset.LabelUnset
		}
		load, ok := byAssignee[name]
		if !ok {
			load = &StaffLoad{Assignee: name}
			byAssignee[name] = load
			order = append(order, name)
		}
		load.Total++
		if r.Get(dataset.FieldStage) != dataset.StageLost {
			load.Active++
		}
	}

	out := make([]StaffLoad, 0, len(order))
	for _, name := range order {
		out = append(out, *byAssignee[name])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Active > out[j].Active })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
