package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultCSVExportURL, cfg.Source.CSVURL)
	require.Equal(t, DefaultMilestoneStart, cfg.Source.MilestoneStart)
	require.Equal(t, DefaultMilestoneEnd, cfg.Source.MilestoneEnd)
	require.Equal(t, DefaultTargetsDBPath, cfg.Storage.TargetsDB)
}

func TestLoad_PartialFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "source:\n  csv_url: https://example.com/export.csv\nlimits:\n  operation_timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/export.csv", cfg.Source.CSVURL)
	require.Equal(t, 5*time.Second, cfg.Limits.OperationTimeout.Std())
	// Untouched fields keep defaults.
	require.Equal(t, DefaultMaxConcurrentRequests, cfg.Limits.MaxConcurrentRequests)
	require.Equal(t, DefaultPreviewRowLimit, cfg.Limits.PreviewRowLimit)
}

func TestLoad_RejectsEmptyMilestoneWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "source:\n  milestone_start: 40\n  milestone_end: 40\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
