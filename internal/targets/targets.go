package targets

import (
	"context"

	"github.com/uehara-kazuya/leadlens/config"
)

// Targets is the persisted KPI target record. All values are non-negative;
// validation happens at the tool boundary before Save.
type Targets struct {
	Revenue        float64 `json:"revenue"`
	DealCount      int     `json:"dealCount"`
	ConversionRate float64 `json:"conversionRate"`
	AvgDealSize    float64 `json:"avgDealSize"`
}

// Defaults returns the target record used when nothing is persisted yet.
func Defaults() Targets {
	return Targets{
		Revenue:        config.DefaultTargetRevenue,
		DealCount:      config.DefaultTargetDealCount,
		ConversionRate: config.DefaultTargetConversionRate,
		AvgDealSize:    config.DefaultTargetAvgDealSize,
	}
}

// Store persists the single KPI target record under a fixed name. Load
// returns Defaults when no entry exists or the stored value is unparseable;
// Save replaces the whole record (no partial merge).
type Store interface {
	Load(ctx context.Context) (Targets, error)
	Save(ctx context.Context, t Targets) error
}

// StoreKey is the fixed name the target record is stored under.
const StoreKey = "crm_kpi_targets"
