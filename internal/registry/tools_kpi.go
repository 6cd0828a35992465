package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
	"github.com/uehara-kazuya/leadlens/internal/insights"
	"github.com/uehara-kazuya/leadlens/internal/targets"
	"github.com/uehara-kazuya/leadlens/pkg/mcperr"
	"github.com/uehara-kazuya/leadlens/pkg/validation"
)

// KPISummaryInput defines KPI rollup parameters.
type KPISummaryInput struct {
	Week      string `json:"week,omitempty" validate:"omitempty,weekkey" jsonschema_description:"Week filter: \"all\", empty, or a key from list_weeks"`
	Dimension string `json:"dimension,omitempty" validate:"omitempty,dimension" jsonschema_description:"Segment dimension: 担当者 (default), 事業内容, or 経路"`
}

// KPISummaryOutput bundles the rollup, targets, attainment, and segments.
type KPISummaryOutput struct {
	Week       string                    `json:"week,omitempty"`
	Dimension  string                    `json:"dimension"`
	Summary    insights.Summary          `json:"summary"`
	Targets    targets.Targets           `json:"targets"`
	Attainment insights.TargetAttainment `json:"attainment" jsonschema_description:"Percent of each target reached, capped at 100"`
	Segments   []insights.Segment        `json:"segments" jsonschema_description:"Breakdown by the chosen dimension, highest revenue first"`
}

// GetTargetsInput has no parameters.
type GetTargetsInput struct{}

// UpdateTargetsInput overlays the provided fields onto the stored targets;
// the full record is persisted in one write.
type UpdateTargetsInput struct {
	Revenue        *float64 `json:"revenue,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Revenue target in yen"`
	DealCount      *int     `json:"dealCount,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Closed-deal count target"`
	ConversionRate *float64 `json:"conversionRate,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Conversion rate target in percent"`
	AvgDealSize    *float64 `json:"avgDealSize,omitempty" validate:"omitempty,gte=0" jsonschema_description:"Average deal size target in yen"`
}

// RegisterKPITools wires the KPI rollup and target persistence tools.
func RegisterKPITools(s *server.MCPServer, reg *Registry, deps Deps) {
	// kpi_summary
	kpi := mcp.NewTool(
		"kpi_summary",
		mcp.WithDescription("Compute the KPI rollup: realized revenue over won deals, probability-weighted pipeline over open deals, forecast, deal count, conversion rate, and average deal size, with attainment against the persisted targets and a segment breakdown by assignee, business category, or channel."),
		mcp.WithInputSchema[KPISummaryInput](),
		mcp.WithOutputSchema[KPISummaryOutput](),
	)
	s.AddTool(kpi, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in KPISummaryInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		records, _, errRes := weekRecords(deps, in.Week)
		if errRes != nil {
			return errRes, nil
		}
		dimension := in.Dimension
		if dimension == "" {
			dimension = dataset.FieldAssignee
		}
		stored, err := deps.Targets.Load(ctx)
		if err != nil {
			return mcperr.Wrapf(mcperr.StoreFailed, "%v", err), nil
		}

		out := KPISummaryOutput{
			Week:      in.Week,
			Dimension: dimension,
			Summary:   insights.BuildSummary(records),
			Targets:   stored,
			Segments:  insights.BuildSegments(records, dimension),
		}
		out.Attainment = insights.BuildAttainment(out.Summary, stored)

		summary := fmt.Sprintf("revenue=%.0f forecast=%.0f deals=%d segments=%d",
			out.Summary.ActualRevenue, out.Summary.Forecast, out.Summary.DealCount, len(out.Segments))
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(kpi)

	// get_targets
	get := mcp.NewTool(
		"get_targets",
		mcp.WithDescription("Read the persisted KPI targets. Defaults are returned when nothing has been saved yet."),
		mcp.WithOutputSchema[targets.Targets](),
	)
	s.AddTool(get, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in GetTargetsInput) (*mcp.CallToolResult, error) {
		stored, err := deps.Targets.Load(ctx)
		if err != nil {
			return mcperr.Wrapf(mcperr.StoreFailed, "%v", err), nil
		}
		summary := fmt.Sprintf("revenue=%.0f dealCount=%d", stored.Revenue, stored.DealCount)
		res := mcp.NewToolResultStructured(stored, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(get)

	// update_targets
	update := mcp.NewTool(
		"update_targets",
		mcp.WithDescription("Update KPI targets. Provided fields overlay the stored record and the full record is persisted immediately, replacing the prior value. Hidden when LEADLENS_READONLY is set."),
		mcp.WithInputSchema[UpdateTargetsInput](),
		mcp.WithOutputSchema[targets.Targets](),
	)
	s.AddTool(update, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in UpdateTargetsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		stored, err := deps.Targets.Load(ctx)
		if err != nil {
			return mcperr.Wrapf(mcperr.StoreFailed, "%v", err), nil
		}
		if in.Revenue != nil {
			stored.Revenue = *in.Revenue
		}
		if in.DealCount != nil {
			stored.DealCount = *in.DealCount
		}
		if in.ConversionRate != nil {
			stored.ConversionRate = *in.ConversionRate
		}
		if in.AvgDealSize != nil {
			stored.AvgDealSize = *in.AvgDealSize
		}
		if err := deps.Targets.Save(ctx, stored); err != nil {
			return mcperr.Wrapf(mcperr.StoreFailed, "%v", err), nil
		}
		deps.Log.Info().Float64("revenue", stored.Revenue).Int("dealCount", stored.DealCount).Msg("targets updated")

		summary := fmt.Sprintf("revenue=%.0f dealCount=%d conversionRate=%.1f avgDealSize=%.0f",
			stored.Revenue, stored.DealCount, stored.ConversionRate, stored.AvgDealSize)
		res := mcp.NewToolResultStructured(stored, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(update)
}
