package insights

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
)

func TestParseDate_Layouts(t *testing.T) {
	for _, in := range []string{"2025/06/04", "2025-06-04", "2025/6/4", "2025-6-4"} {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		require.Equal(t, 2025, got.Year())
		require.Equal(t, 6, int(got.Month()))
		require.Equal(t, 4, got.Day())
	}
	for _, in := range []string{"", "  ", "next tuesday", "06/04"} {
		_, ok := ParseDate(in)
		require.False(t, ok, in)
	}
}

func TestDayDelta(t *testing.T) {
	same := DayDelta("2025/06/04", "2025/06/04")
	require.NotNil(t, same)
	require.Equal(t, 0, *same)

	forward := DayDelta("2025/06/04", "2025/06/11")
	require.NotNil(t, forward)
	require.Equal(t, 7, *forward)

	// Negative deltas are not clamped.
	back := DayDelta("2025/06/11", "2025/06/04")
	require.NotNil(t, back)
	require.Equal(t, -7, *back)

	require.Nil(t, DayDelta("", "2025/06/04"))
	require.Nil(t, DayDelta("2025/06/04", "not a date"))
}

func TestParseCurrencyOrZero(t *testing.T) {
	require.Equal(t, 1_000_000.0, ParseCurrencyOrZero("¥1,000,000"))
	require.Equal(t, 500_000.0, ParseCurrencyOrZero("500,000円"))
	require.Equal(t, 12.5, ParseCurrencyOrZero("12.5万")) // unit suffix is dropped, not scaled
	require.Equal(t, -300.0, ParseCurrencyOrZero("-300"))
	require.Equal(t, 0.0, ParseCurrencyOrZero(""))
	require.Equal(t, 0.0, ParseCurrencyOrZero("未定"))
}

func TestParseProbabilityOrZero(t *testing.T) {
	require.Equal(t, 70.0, ParseProbabilityOrZero("70%"))
	require.Equal(t, 70.0, ParseProbabilityOrZero(" 70 "))
	require.Equal(t, 2.5, ParseProbabilityOrZero("2.5%"))
	require.Equal(t, 0.0, ParseProbabilityOrZero("高"))
	require.Equal(t, 0.0, ParseProbabilityOrZero(""))
}

func TestAmountOf_QuoteFallsBackToPlan(t *testing.T) {
	require.Equal(t, 800_000.0, AmountOf(dataset.Record{
		dataset.FieldQuote: "¥800,000",
		dataset.FieldPlan:  "¥100,000",
	}))
	require.Equal(t, 100_000.0, AmountOf(dataset.Record{
		dataset.FieldPlan: "¥100,000",
	}))
	require.Equal(t, 0.0, AmountOf(dataset.Record{}))
}

func TestRoundRate_GuardsZeroDenominator(t *testing.T) {
	require.Equal(t, 0, RoundRate(5, 0))
	require.Equal(t, 50, RoundRate(1, 2))
	require.Equal(t, 33, RoundRate(1, 3))
}

func TestDelaySeverity(t *testing.T) {
	require.Equal(t, SeverityNormal, DelaySeverity(0))
	require.Equal(t, SeverityNormal, DelaySeverity(14))
	require.Equal(t, SeverityMedium, DelaySeverity(15))
	require.Equal(t, SeverityMedium, DelaySeverity(30))
	require.Equal(t, SeverityHigh, DelaySeverity(31))
}
