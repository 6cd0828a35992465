package registry

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
	"github.com/uehara-kazuya/leadlens/internal/insights"
	"github.com/uehara-kazuya/leadlens/pkg/mcperr"
	"github.com/uehara-kazuya/leadlens/pkg/validation"
)

// WeekScopedInput is the shared shape of analysis tools that only take the
// optional week filter.
type WeekScopedInput struct {
	Week string `json:"week,omitempty" validate:"omitempty,weekkey" jsonschema_description:"Week filter: \"all\", empty, or a key from list_weeks"`
}

// OverviewOutput wraps the dataset overview with its filter scope.
type OverviewOutput struct {
	Week     string            `json:"week,omitempty"`
	Overview insights.Overview `json:"overview"`
}

// LeadTimeInput defines lead-time analysis parameters.
type LeadTimeInput struct {
	Mode        string `json:"mode,omitempty" jsonschema_description:"Stage filter mode: active_only (default, drops the lost stage), all, or an exact stage value"`
	Stage       string `json:"stage,omitempty" jsonschema_description:"Optional exact stage filter applied after mode"`
	Probability string `json:"probability,omitempty" jsonschema_description:"Optional exact probability-label filter (e.g. 70%)"`
	Week        string `json:"week,omitempty" validate:"omitempty,weekkey" jsonschema_description:"Week filter: \"all\", empty, or a key from list_weeks"`
}

// LeadTimeOutput carries the timing rows, most recent approach first.
type LeadTimeOutput struct {
	Week  string                 `json:"week,omitempty"`
	Mode  string                 `json:"mode"`
	Rows  []insights.LeadTimeRow `json:"rows"`
	Count int                    `json:"count"`
}

// FunnelWorkloadOutput bundles the funnel counts with the assignee workload.
type FunnelWorkloadOutput struct {
	Week     string               `json:"week,omitempty"`
	Funnel   insights.Funnel      `json:"funnel"`
	Workload []insights.StaffLoad `json:"workload" jsonschema_description:"Top five assignees by active leads"`
}

// StagnantLeadsOutput carries the highest-risk stalled leads.
type StagnantLeadsOutput struct {
	Week  string                  `json:"week,omitempty"`
	Leads []insights.StagnantLead `json:"leads" jsonschema_description:"Up to ten leads scoring above 30, highest risk first"`
	Count int                     `json:"count"`
}

// MilestoneProgressOutput carries the milestone report.
type MilestoneProgressOutput struct {
	Week     string            `json:"week,omitempty"`
	Progress insights.Progress `json:"progress"`
}

// weekRecords resolves the snapshot and applies the week filter.
func weekRecords(d Deps, week string) ([]dataset.Record, *dataset.Snapshot, *mcp.CallToolResult) {
	snap, errRes := currentSnapshot(d)
	if errRes != nil {
		return nil, nil, errRes
	}
	return insights.FilterWeek(snap.Records, week), snap, nil
}

// RegisterInsightTools wires the derived-analytics tools.
func RegisterInsightTools(s *server.MCPServer, reg *Registry, deps Deps) {
	// overview
	overview := mcp.NewTool(
		"overview",
		mcp.WithDescription("Summarize the dataset: record count, stage distribution, probability-label distribution, and the top six business categories and acquisition channels. Empty cells fold into per-dimension default labels. Accepts the optional week filter."),
		mcp.WithInputSchema[WeekScopedInput](),
		mcp.WithOutputSchema[OverviewOutput](),
	)
	s.AddTool(overview, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in WeekScopedInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		records, _, errRes := weekRecords(deps, in.Week)
		if errRes != nil {
			return errRes, nil
		}
		out := OverviewOutput{Week: in.Week, Overview: insights.BuildOverview(records)}
		summary := fmt.Sprintf("records=%d stages=%d", out.Overview.TotalRecords, len(out.Overview.StageCounts))
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(overview)

	// lead_time_analysis
	leadTime := mcp.NewTool(
		"lead_time_analysis",
		mcp.WithDescription("Compute day deltas from each lead's approach date to its five meeting dates, with severity bands (over 30 days high, over 14 medium). Rows without an approach date are excluded. mode filters stages first (active_only, all, or an exact stage); stage and probability filters apply on top. Rows sort most recent first."),
		mcp.WithInputSchema[LeadTimeInput](),
		mcp.WithOutputSchema[LeadTimeOutput](),
	)
	s.AddTool(leadTime, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in LeadTimeInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		records, _, errRes := weekRecords(deps, in.Week)
		if errRes != nil {
			return errRes, nil
		}
		mode := in.Mode
		if mode == "" {
			mode = insights.StageModeActiveOnly
		}
		out := LeadTimeOutput{Week: in.Week, Mode: mode}
		out.Rows = insights.LeadTimes(records, mode, in.Stage, in.Probability)
		out.Count = len(out.Rows)
		summary := fmt.Sprintf("rows=%d mode=%s", out.Count, mode)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(leadTime)

	// funnel_workload
	funnel := mcp.NewTool(
		"funnel_workload",
		mcp.WithDescription("Count records per pipeline funnel stage (substring matching over composite stage cells; the final stage also counts filled contract fields) with adjacent-stage conversion rates, plus the five busiest assignees by active lead count. Later stages may legitimately exceed earlier ones."),
		mcp.WithInputSchema[WeekScopedInput](),
		mcp.WithOutputSchema[FunnelWorkloadOutput](),
	)
	s.AddTool(funnel, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in WeekScopedInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		records, _, errRes := weekRecords(deps, in.Week)
		if errRes != nil {
			return errRes, nil
		}
		out := FunnelWorkloadOutput{
			Week:     in.Week,
			Funnel:   insights.BuildFunnel(records),
			Workload: insights.BuildWorkload(records),
		}
		summary := fmt.Sprintf("stages=%d assignees=%d", len(out.Funnel.Stages), len(out.Workload))
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(funnel)

	// stagnant_leads
	stagnant := mcp.NewTool(
		"stagnant_leads",
		mcp.WithDescription("Score open leads for staleness: approached over 14 days ago with no first meeting, or first meeting over 30 days ago with no second. Scores are capped at 100; only leads scoring above 30 are returned, ten at most, highest first. Lost and contracted leads are skipped."),
		mcp.WithInputSchema[WeekScopedInput](),
		mcp.WithOutputSchema[StagnantLeadsOutput](),
	)
	s.AddTool(stagnant, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in WeekScopedInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		records, _, errRes := weekRecords(deps, in.Week)
		if errRes != nil {
			return errRes, nil
		}
		scorer := &insights.Scorer{}
		out := StagnantLeadsOutput{Week: in.Week, Leads: scorer.Score(records)}
		out.Count = len(out.Leads)
		summary := fmt.Sprintf("at_risk=%d", out.Count)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(stagnant)

	// milestone_progress
	milestones := mcp.NewTool(
		"milestone_progress",
		mcp.WithDescription("Track each lead's position across the milestone column block: the last completed milestone (highest done column, so out-of-order completions still advance), a completion percentage, and per-milestone counts of leads currently at that step. Only leads with a company name are included; rows sort furthest-progressed first."),
		mcp.WithInputSchema[WeekScopedInput](),
		mcp.WithOutputSchema[MilestoneProgressOutput](),
	)
	s.AddTool(milestones, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in WeekScopedInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		records, snap, errRes := weekRecords(deps, in.Week)
		if errRes != nil {
			return errRes, nil
		}
		names := insights.MilestoneNames(snap.HeaderWindow(deps.Source.MilestoneStart, deps.Source.MilestoneEnd))
		out := MilestoneProgressOutput{Week: in.Week, Progress: insights.BuildProgress(records, names)}
		summary := fmt.Sprintf("milestones=%d rows=%d", len(out.Progress.Milestones), len(out.Progress.Rows))
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(milestones)
}
