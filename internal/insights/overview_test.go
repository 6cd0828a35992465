package insights

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

func TestBuildOverview(t *testing.T) {
	records := []dataset.Record{
		{dataset.FieldStage: "S4", dataset.FieldProbability: "70%", dataset.FieldBusiness: "IT", dataset.FieldChannel: "紹介"},
		{dataset.FieldStage: "S3", dataset.FieldProbability: "70%", dataset.FieldBusiness: "IT"},
		{dataset.FieldStage: "S3", dataset.FieldProbability: "30%"},
		{},
	}
	o := BuildOverview(records)
	require.Equal(t, 4, o.TotalRecords)

	require.Equal(t, []NamedCount{
		{Name: "S3", Count: 2},
		{Name: "S4", Count: 1},
		{Name: dataset.LabelUnset, Count: 1},
	}, o.StageCounts)

	require.Equal(t, "70%", o.ProbabilityCounts[0].Name)
	require.Equal(t, 2, o.ProbabilityCounts[0].Count)

	require.Equal(t, "IT", o.TopCategories[0].Name)
	require.Equal(t, 2, o.TopCategories[0].Count)
	require.Equal(t, dataset.LabelCategoryOther, o.TopCategories[1].Name)

	require.Equal(t, dataset.LabelChannelUnknown, o.TopChannels[0].Name)
	require.Equal(t, 3, o.TopChannels[0].Count)

	require.Equal(t, []string{"S3", "S4"}, o.Stages)
}

func TestBuildOverview_TopSixCap(t *testing.T) {
	records := []dataset.Record{}
	for _, c := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		records = append(records, dataset.Record{dataset.FieldChannel: c})
	}
	o := BuildOverview(records)
	require.Len(t, o.TopChannels, 6)
}

func TestBuildOverview_Empty(t *testing.T) {
	o := BuildOverview(nil)
	require.Zero(t, o.TotalRecords)
	require.Empty(t, o.StageCounts)
	require.Empty(t, o.Stages)
}
