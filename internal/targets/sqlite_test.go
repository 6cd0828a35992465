package targets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "targets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteStore_LoadWithoutSaveReturnsDefaults(t *testing.T) {
	st := openTestStore(t)
	got, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Defaults(), got)
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	want := Targets{Revenue: 25_000_000, DealCount: 40, ConversionRate: 18.5, AvgDealSize: 625_000}

	require.NoError(t, st.Save(context.Background(), want))
	got, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSQLiteStore_SaveIsIdempotentAndReplaces(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := Targets{Revenue: 1, DealCount: 2, ConversionRate: 3, AvgDealSize: 4}
	require.NoError(t, st.Save(ctx, first))
	require.NoError(t, st.Save(ctx, first))
	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, first, got)

	second := Targets{Revenue: 9, DealCount: 8, ConversionRate: 7, AvgDealSize: 6}
	require.NoError(t, st.Save(ctx, second))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, second, got)
}

func TestSQLiteStore_UnparseableValueFallsBackToDefaults(t *testing.T) {
	st := openTestStore(t)
	_, err := st.db.Exec("INSERT INTO kv (name, value) VALUES (?, ?)", StoreKey, "{not json")
	require.NoError(t, err)

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Defaults(), got)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Defaults(), got)

	want := Targets{Revenue: 100, DealCount: 1, ConversionRate: 50, AvgDealSize: 100}
	require.NoError(t, st.Save(ctx, want))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
