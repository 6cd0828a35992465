package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

var stagnationNow = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func fixedScorer() *Scorer {
	return &Scorer{Now: func() time.Time { return stagnationNow }}
}

func daysAgo(n int) string {
	return stagnationNow.AddDate(0, 0, -n).Format("2006/01/02")
}

func TestScore_NoFirstMeetingTier(t *testing.T) {
	records := []dataset.Record{{
		dataset.FieldCompany:  "a",
		dataset.FieldStage:    "S3",
		dataset.FieldApproach: daysAgo(20),
	}}
	got := fixedScorer().Score(records)
	require.Len(t, got, 1)
	require.Equal(t, 40, got[0].Score)
	require.Equal(t, ReasonNoFirstMeeting, got[0].Reason)
	require.Equal(t, 20, got[0].Days)
}

func TestScore_RecentApproachExcluded(t *testing.T) {
	records := []dataset.Record{{
		dataset.FieldCompany:  "a",
		dataset.FieldStage:    "S3",
		dataset.FieldApproach: daysAgo(10),
	}}
	require.Empty(t, fixedScorer().Score(records))
}

func TestScore_NoProgressTier(t *testing.T) {
	records := []dataset.Record{{
		dataset.FieldCompany:  "a",
		dataset.FieldStage:    "S4",
		dataset.FieldApproach: daysAgo(60),
		dataset.FieldMeeting1: daysAgo(40),
	}}
	got := fixedScorer().Score(records)
	require.Len(t, got, 1)
	require.Equal(t, 60, got[0].Score) // floor(40 * 1.5)
	require.Equal(t, ReasonNoProgress, got[0].Reason)
	require.Equal(t, 40, got[0].Days)
}

func TestScore_SecondMeetingClearsRisk(t *testing.T) {
	records := []dataset.Record{{
		dataset.FieldCompany:  "a",
		dataset.FieldStage:    "S4",
		dataset.FieldApproach: daysAgo(90),
		dataset.FieldMeeting1: daysAgo(80),
		dataset.FieldMeeting2: daysAgo(70),
	}}
	require.Empty(t, fixedScorer().Score(records))
}

func TestScore_TerminalStagesSkipped(t *testing.T) {
	records := []dataset.Record{
		{dataset.FieldCompany: "lost", dataset.FieldStage: dataset.StageLost, dataset.FieldApproach: daysAgo(100)},
		{dataset.FieldCompany: "won", dataset.FieldStage: dataset.StageContract, dataset.FieldApproach: daysAgo(100)},
	}
	require.Empty(t, fixedScorer().Score(records))
}

func TestScore_CapsAt100(t *testing.T) {
	records := []dataset.Record{{
		dataset.FieldCompany:  "a",
		dataset.FieldStage:    "S3",
		dataset.FieldApproach: daysAgo(200),
	}}
	got := fixedScorer().Score(records)
	require.Len(t, got, 1)
	require.Equal(t, 100, got[0].Score)
}

func TestScore_LowScoresDropped(t *testing.T) {
	// 15 days stalled scores 30, which does not clear the >30 bar.
	records := []dataset.Record{{
		dataset.FieldCompany:  "a",
		dataset.FieldStage:    "S3",
		dataset.FieldApproach: daysAgo(15),
	}}
	require.Empty(t, fixedScorer().Score(records))
}

func TestScore_FractionalDaysFloorAfterMultiplier(t *testing.T) {
	// Cell dates anchor at midnight while the clock carries time of day.
	// 0.6 days past midnight, approached 15 days earlier: the true diff is
	// 15.6 days, so the score is floor(15.6*2)=31 and the lead is included.
	// Truncating the diff to 15 days first would score 30 and drop it.
	scorer := &Scorer{Now: func() time.Time {
		return stagnationNow.Add(14*time.Hour + 24*time.Minute)
	}}
	records := []dataset.Record{{
		dataset.FieldCompany:  "a",
		dataset.FieldStage:    "S3",
		dataset.FieldApproach: daysAgo(15),
	}}
	got := scorer.Score(records)
	require.Len(t, got, 1)
	require.Equal(t, 31, got[0].Score)
	require.Equal(t, 15, got[0].Days)

	// Same shape in the second tier: first meeting 30 days ago plus the
	// fractional tail clears the >30 gate and scores floor(30.6*1.5)=45.
	records = []dataset.Record{{
		dataset.FieldCompany:  "b",
		dataset.FieldStage:    "S4",
		dataset.FieldApproach: daysAgo(40),
		dataset.FieldMeeting1: daysAgo(30),
	}}
	got = scorer.Score(records)
	require.Len(t, got, 1)
	require.Equal(t, 45, got[0].Score)
}

func TestScore_TopTenDescending(t *testing.T) {
	records := make([]dataset.Record, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, dataset.Record{
			dataset.FieldCompany:  fmt.Sprintf("c%02d", i),
			dataset.FieldStage:    "S3",
			dataset.FieldApproach: daysAgo(20 + i),
		})
	}
	got := fixedScorer().Score(records)
	require.Len(t, got, 10)
	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	require.Equal(t, "c11", got[0].Company)
}
