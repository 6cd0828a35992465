package insights

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
	"github.com/uehara-kazuya/leadlens/internal/targets"
)

func TestBuildSummary_Forecast(t *testing.T) {
	records := []dataset.Record{
		{dataset.FieldStage: "契約", dataset.FieldQuote: "1,000,000"},
		{dataset.FieldStage: "S4", dataset.FieldQuote: "2,000,000", dataset.FieldProbability: "50%"},
	}
	s := BuildSummary(records)
	require.Equal(t, 1_000_000.0, s.ActualRevenue)
	require.Equal(t, 1_000_000.0, s.PipelineRevenue)
	require.Equal(t, 2_000_000.0, s.Forecast)
	require.Equal(t, 1, s.DealCount)
	require.Equal(t, 50.0, s.ConversionRate)
	require.Equal(t, 1_000_000.0, s.AvgDealSize)
}

func TestBuildSummary_WonByContractField(t *testing.T) {
	records := []dataset.Record{
		{dataset.FieldStage: "S5", dataset.FieldContract: "2025/06/01", dataset.FieldQuote: "500,000"},
	}
	s := BuildSummary(records)
	require.Equal(t, 1, s.DealCount)
	require.Equal(t, 500_000.0, s.ActualRevenue)
	// The stage cell alone decides pipeline membership, so a won-by-field
	// row with an open stage would also have been weighted in; here it was
	// already consumed by the won branch.
	require.Equal(t, 0.0, s.PipelineRevenue)
}

func TestBuildSummary_LostExcludedFromPipeline(t *testing.T) {
	records := []dataset.Record{
		{dataset.FieldStage: "失注", dataset.FieldQuote: "9,000,000", dataset.FieldProbability: "90%"},
	}
	s := BuildSummary(records)
	require.Equal(t, 0.0, s.PipelineRevenue)
	require.Equal(t, 0.0, s.Forecast)
}

func TestBuildSummary_EmptyDataset(t *testing.T) {
	s := BuildSummary(nil)
	require.Zero(t, s.ConversionRate)
	require.Zero(t, s.AvgDealSize)
	require.Zero(t, s.Forecast)
}

func TestAttainment(t *testing.T) {
	require.Equal(t, 50, Attainment(5_000_000, 10_000_000))
	require.Equal(t, 100, Attainment(15_000_000, 10_000_000)) // capped
	require.Equal(t, 0, Attainment(5, 0))                     // zero target guarded
	require.Equal(t, 33, Attainment(1, 3))
}

func TestBuildAttainment(t *testing.T) {
	s := Summary{ActualRevenue: 5_000_000, DealCount: 10, ConversionRate: 15, AvgDealSize: 250_000}
	got := BuildAttainment(s, targets.Defaults())
	require.Equal(t, 50, got.Revenue)
	require.Equal(t, 50, got.DealCount)
	require.Equal(t, 100, got.ConversionRate)
	require.Equal(t, 50, got.AvgDealSize)
}

func TestBuildSegments(t *testing.T) {
	records := []dataset.Record{
		{dataset.FieldAssignee: "田中", dataset.FieldStage: "契約", dataset.FieldQuote: "3,000,000"},
		{dataset.FieldAssignee: "田中", dataset.FieldStage: "S4"},
		{dataset.FieldAssignee: "佐藤", dataset.FieldStage: "契約", dataset.FieldQuote: "1,000,000"},
		{dataset.FieldStage: "S3"},
	}
	segs := BuildSegments(records, dataset.FieldAssignee)
	require.Len(t, segs, 3)

	require.Equal(t, "田中", segs[0].Name)
	require.Equal(t, 3_000_000.0, segs[0].Revenue)
	require.Equal(t, 1, segs[0].DealCount)
	require.Equal(t, 2, segs[0].GroupSize)
	require.Equal(t, 50.0, segs[0].ConversionRate)
	require.Equal(t, 3_000_000.0, segs[0].AvgDealSize)
	require.Equal(t, 75.0, segs[0].Contribution)

	require.Equal(t, "佐藤", segs[1].Name)
	require.Equal(t, 25.0, segs[1].Contribution)

	require.Equal(t, dataset.LabelUnset, segs[2].Name)
	require.Zero(t, segs[2].Revenue)
	require.Zero(t, segs[2].AvgDealSize)
}

func TestBuildSegments_ZeroTotalRevenue(t *testing.T) {
	records := []dataset.Record{
		{dataset.FieldAssignee: "田中", dataset.FieldStage: "S3"},
	}
	segs := BuildSegments(records, dataset.FieldAssignee)
	require.Len(t, segs, 1)
	require.Zero(t, segs[0].Contribution) // total treated as 1, not a NaN
}
