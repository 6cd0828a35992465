package config

import "time"

// Default guardrails and data-source settings for the LeadLens analytics
// server. Values here are conservative fallbacks; the YAML config file and
// CLI flags override them.

const (
	// Concurrency
	DefaultMaxConcurrentRequests = 10
	DefaultMaxConcurrentFetches  = 1

	// Payload and row limits
	DefaultMaxPayloadBytes = 128 * 1024 // 128KB
	DefaultPreviewRowLimit = 20
)

const (
	// Timeouts
	DefaultOperationTimeout      = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
	DefaultFetchTimeout          = 20 * time.Second
)

// Data source defaults. The sheet is published as an unauthenticated CSV
// export; any 2xx response is a successful fetch.
const (
	DefaultSpreadsheetID = "1u0G7TMRniwvqh3ReLCxi68qlrbeHNkJbGdXL_z93JP4"
	DefaultSheetGID      = "0"
	DefaultCSVExportURL  = "https://docs.google.com/spreadsheets/d/" + DefaultSpreadsheetID + "/export?format=csv&gid=" + DefaultSheetGID
)

// Milestone window: the contiguous block of progress-tracking columns within
// the header list (spreadsheet columns AJ:BY), half-open [start, end).
const (
	DefaultMilestoneStart = 35
	DefaultMilestoneEnd   = 77
)

// Default KPI targets used when the target store has no persisted entry.
const (
	DefaultTargetRevenue        = 10_000_000
	DefaultTargetDealCount      = 20
	DefaultTargetConversionRate = 15
	DefaultTargetAvgDealSize    = 500_000
)

// DefaultTargetsDBPath is the on-disk location of the KPI target store.
const DefaultTargetsDBPath = "leadlens.db"
