package insights

import (
	"sort"

	"github.com/samber/lo"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

// NamedCount is one bucket of a grouped count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Overview is the dataset-level summary: distribution of stages and
// probability labels plus the leading business categories and acquisition
// channels.
type Overview struct {
	TotalRecords      int          `json:"total_records"`
	StageCounts       []NamedCount `json:"stage_counts"`
	ProbabilityCounts []NamedCount `json:"probability_counts"`
	TopCategories     []NamedCount `json:"top_categories"`
	TopChannels       []NamedCount `json:"top_channels"`
	Stages            []string     `json:"stages"`
}

// BuildOverview aggregates the record set into an Overview. Empty cells fold
// into per-dimension default labels so every record lands in some bucket.
func BuildOverview(records []dataset.Record) Overview {
	out := Overview{TotalRecords: len(records)}

	out.StageCounts = countBy(records, dataset.FieldStage, dataset.LabelUnset)
	sort.Slice(out.StageCounts, func(i, j int) bool {
		return out.StageCounts[i].Name < out.StageCounts[j].Name
	})

	out.ProbabilityCounts = countBy(records, dataset.FieldProbability, dataset.LabelUnset)
	sortByCountDesc(out.ProbabilityCounts)

	out.TopCategories = topN(countBy(records, dataset.FieldBusiness, dataset.LabelCategoryOther), 6)
	out.TopChannels = topN(countBy(records, dataset.FieldChannel, dataset.LabelChannelUnknown), 6)

	out.Stages = lo.FilterMap(out.StageCounts, func(c NamedCount, _ int) (string, bool) {
		return c.Name, c.Name != dataset.LabelUnset
	})
	return out
}

func countBy(records []dataset.Record, field, defaultLabel string) []NamedCount {
	grouped := lo.CountValuesBy(records, func(r dataset.Record) string {
		if v := r.Get(field); v != "" {
			return v
		}
		return defaultLabel
	})
	out := make([]NamedCount, 0, len(grouped))
	for name, n := range grouped {
		out = append(out, NamedCount{Name: name, Count: n})
	}
	return out
}

func sortByCountDesc(counts []NamedCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
}

func topN(counts []NamedCount, n int) []NamedCount {
	sortByCountDesc(counts)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
