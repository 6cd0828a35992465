package insights

import (
	"math"
	"sort"
	"strings"

	"github.com/uehara-kazuya/leadlens/internal/dataset"
	"github.com/uehara-kazuya/leadlens/internal/targets"
)

// IsWon reports whether a record counts as a closed deal: the stage cell
// contains the contract label, or the contract field itself is filled. The OR
// fallback absorbs inconsistently maintained source rows.
func IsWon(r dataset.Record) bool {
	if strings.Contains(r.Get(dataset.FieldStage), dataset.StageContract) {
		return true
	}
	return strings.TrimSpace(r.Get(dataset.FieldContract)) != ""
}

// inPipeline reports whether a record contributes weighted forecast revenue.
// Only the stage cell is consulted here; the contract field does not pull a
// row out of the pipeline on its own.
func inPipeline(r dataset.Record) bool {
	stage := r.Get(dataset.FieldStage)
	return !strings.Contains(stage, dataset.StageLost) &&
		!strings.Contains(stage, dataset.StageContract)
}

// Summary is the KPI rollup over the current record set.
type Summary struct {
	TotalRecords    int     `json:"total_records"`
	ActualRevenue   float64 `json:"actual_revenue"`
	PipelineRevenue float64 `json:"pipeline_revenue"`
	Forecast        float64 `json:"forecast"`
	DealCount       int     `json:"deal_count"`
	ConversionRate  float64 `json:"conversion_rate"`
	AvgDealSize     float64 `json:"avg_deal_size"`
}

// BuildSummary computes realized revenue over won records, the
// probability-weighted pipeline over open records, and the derived ratios.
// All divisions are guarded; an empty dataset yields an all-zero summary.
func BuildSummary(records []dataset.Record) Summary {
	s := Summary{TotalRecords: len(records)}
	for _, r := range records {
		if IsWon(r) {
			s.ActualRevenue += AmountOf(r)
			s.DealCount++
			continue
		}
		if inPipeline(r) {
			s.PipelineRevenue += AmountOf(r) * ParseProbabilityOrZero(r.Get(dataset.FieldProbability)) / 100
		}
	}
	s.Forecast = s.ActualRevenue + s.PipelineRevenue
	if s.TotalRecords > 0 {
		s.ConversionRate = float64(s.DealCount) / float64(s.TotalRecords) * 100
	}
	if s.DealCount > 0 {
		s.AvgDealSize = s.ActualRevenue / float64(s.DealCount)
	}
	return s
}

// Attainment returns the percentage of target reached, rounded and capped at
// 100. A zero or negative target reads as 0 rather than dividing by it.
func Attainment(value, target float64) int {
	if target <= 0 {
		return 0
	}
	pct := int(math.Round(value / target * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// TargetAttainment is the per-target progress of a Summary.
type TargetAttainment struct {
	Revenue        int `json:"revenue"`
	DealCount      int `json:"deal_count"`
	ConversionRate int `json:"conversion_rate"`
	AvgDealSize    int `json:"avg_deal_size"`
}

// BuildAttainment compares a summary against the persisted targets.
func BuildAttainment(s Summary, t targets.Targets) TargetAttainment {
	return TargetAttainment{
		Revenue:        Attainment(s.ActualRevenue, t.Revenue),
		DealCount:      Attainment(float64(s.DealCount), float64(t.DealCount)),
		ConversionRate: Attainment(s.ConversionRate, t.ConversionRate),
		AvgDealSize:    Attainment(s.AvgDealSize, t.AvgDealSize),
	}
}

// Segment is one group of the segment breakdown.
type Segment struct {
	Name           string  `json:"name"`
	Revenue        float64 `json:"revenue"`
	DealCount      int     `json:"deal_count"`
	GroupSize      int     `json:"group_size"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgDealSize    float64 `json:"avg_deal_size"`
	Contribution   float64 `json:"contribution"`
}

// BuildSegments breaks the record set down by one dimension field (assignee,
// business category, or channel). Revenue and deal counts cover won records
// only; group size covers every record in the group. Contribution is the
// group's share of total realized revenue, with an empty total treated as 1
// to keep the ratio finite.
func BuildSegments(records []dataset.Record, dimension string) []Segment {
	byName := map[string]*Segment{}
	order := []string{}
	totalRevenue := 0.0
	for _, r := range records {
		name := r.Get(dimension)
		if name == "" {
			name = dataset.LabelUnset
		}
		seg, ok := byName[name]
		if !ok {
			seg = &Segment{Name: name}
			byName[name] = seg
			order = append(order, name)
		}
		seg.GroupSize++
		if IsWon(r) {
			amount := AmountOf(r)
			seg.Revenue += amount
			seg.DealCount++
			totalRevenue += amount
		}
	}

	if totalRevenue == 0 {
		totalRevenue = 1
	}
	out := make([]Segment, 0, len(order))
	for _, name := range order {
		seg := *byName[name]
		seg.ConversionRate = float64(seg.DealCount) / float64(seg.GroupSize) * 100
		if seg.DealCount > 0 {
			seg.AvgDealSize = seg.Revenue / float64(seg.DealCount)
		}
		seg.Contribution = seg.Revenue / totalRevenue * 100
		out = append(out, seg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}
