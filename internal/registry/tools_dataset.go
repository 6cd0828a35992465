package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
	"github.com/uehara-kazuya/leadlens/internal/insights"
	"github.com/uehara-kazuya/leadlens/internal/security"
	"github.com/uehara-kazuya/leadlens/pkg/mcperr"
	"github.com/uehara-kazuya/leadlens/pkg/pagination"
	"github.com/uehara-kazuya/leadlens/pkg/validation"
)

// --- Input / Output Schemas (typed for discovery) ---

// RefreshDataInput has no parameters; refresh always replaces the whole snapshot.
type RefreshDataInput struct{}

// SnapshotInfo summarizes the installed dataset snapshot.
type SnapshotInfo struct {
	Records   int    `json:"records" jsonschema_description:"Number of data rows in the snapshot"`
	Headers   int    `json:"headers" jsonschema_description:"Number of header columns"`
	Version   int64  `json:"version" jsonschema_description:"Monotonic snapshot version token"`
	FetchedAt string `json:"fetched_at" jsonschema_description:"Snapshot install time (RFC 3339)"`
	Source    string `json:"source" jsonschema_description:"Data source the snapshot was loaded from"`
}

// LoadWorkbookInput defines parameters for loading a local spreadsheet copy.
type LoadWorkbookInput struct {
	Path  string `json:"path" validate:"required,workbook_ext" jsonschema_description:"Path to a spreadsheet file inside an allowed directory (.xlsx, .xlsm, .xltx, .xltm)"`
	Sheet string `json:"sheet,omitempty" jsonschema_description:"Sheet name; defaults to the first sheet"`
}

// DatasetStatusInput has no parameters.
type DatasetStatusInput struct{}

// DatasetStatusOutput reports whether data is loaded and how fresh it is.
type DatasetStatusOutput struct {
	Loaded   bool         `json:"loaded" jsonschema_description:"True when a snapshot is installed"`
	Snapshot SnapshotInfo `json:"snapshot,omitempty" jsonschema_description:"Current snapshot details when loaded"`
	Weeks    int          `json:"weeks" jsonschema_description:"Number of distinct approach-date week buckets"`
}

// ListWeeksInput has no parameters.
type ListWeeksInput struct{}

// ListWeeksOutput carries the distinct week buckets, most recent first.
type ListWeeksOutput struct {
	Weeks []string `json:"weeks" jsonschema_description:"Week keys usable as week filters, newest first"`
	Count int      `json:"count"`
}

// PreviewRecordsInput defines cursor-paginated raw-record preview parameters.
type PreviewRecordsInput struct {
	Week     string `json:"week,omitempty" validate:"omitempty,weekkey" jsonschema_description:"Week filter: \"all\", empty, or a key from list_weeks"`
	PageSize int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=200" jsonschema_description:"Rows per page (default from server limits)"`
	Cursor   string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque continuation cursor from a prior page; takes precedence over week and page_size"`
}

// PageMeta captures paging/truncation metadata.
type PageMeta struct {
	Total      int    `json:"total"`
	Returned   int    `json:"returned"`
	Truncated  bool   `json:"truncated"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// PreviewRecordsOutput carries one page of records projected onto the display columns.
type PreviewRecordsOutput struct {
	Columns []string            `json:"columns" jsonschema_description:"Display column order"`
	Rows    []map[string]string `json:"rows"`
	Week    string              `json:"week,omitempty"`
	Meta    PageMeta            `json:"meta"`
}

// snapshotInfo converts a dataset snapshot into its wire summary.
func snapshotInfo(s *dataset.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		Records:   len(s.Records),
		Headers:   len(s.Headers),
		Version:   s.Version,
		FetchedAt: s.FetchedAt.Format(time.RFC3339),
		Source:    s.Source,
	}
}

// currentSnapshot fetches the installed snapshot or an EMPTY_DATASET result.
func currentSnapshot(d Deps) (*dataset.Snapshot, *mcp.CallToolResult) {
	snap, err := d.Store.Snapshot()
	if err != nil {
		return nil, mcperr.New(mcperr.EmptyDataset, "")
	}
	return snap, nil
}

// RegisterDatasetTools wires the ingestion and raw-data tools.
func RegisterDatasetTools(s *server.MCPServer, reg *Registry, deps Deps) {
	// refresh_data
	refresh := mcp.NewTool(
		"refresh_data",
		mcp.WithDescription("Download the published CSV export and replace the dataset snapshot atomically. Headers and rows always change together; a refresh that loses the race to a newer one is discarded (STALE_REFRESH) and the newest data stays installed. No automatic retries: on FETCH_FAILED simply call again."),
		mcp.WithOutputSchema[SnapshotInfo](),
	)
	s.AddTool(refresh, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in RefreshDataInput) (*mcp.CallToolResult, error) {
		if err := deps.Ctrl.AcquireFetch(ctx); err != nil {
			return mcperr.New(mcperr.BusyResource, "another refresh is in flight"), nil
		}
		defer deps.Ctrl.ReleaseFetch()

		fetchCtx, cancel := context.WithTimeout(ctx, deps.Source.FetchTimeout.Std())
		defer cancel()

		snap, err := deps.Store.Refresh(fetchCtx)
		if err != nil {
			if errors.Is(err, dataset.ErrStale) {
				return mcperr.New(mcperr.StaleRefresh, ""), nil
			}
			return mcperr.Wrapf(mcperr.FetchFailed, "%v", err), nil
		}
		out := snapshotInfo(snap)
		summary := fmt.Sprintf("records=%d version=%d source=%s", out.Records, out.Version, out.Source)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(refresh)

	// load_workbook
	load := mcp.NewTool(
		"load_workbook",
		mcp.WithDescription("Load the dataset from a local spreadsheet file instead of the CSV export, for offline analysis of a downloaded copy. The path must sit inside a directory listed in LEADLENS_ALLOWED_DIRS; loading is disabled when no allow-list is configured. The sheet's first row becomes the header list."),
		mcp.WithInputSchema[LoadWorkbookInput](),
		mcp.WithOutputSchema[SnapshotInfo](),
	)
	s.AddTool(load, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in LoadWorkbookInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		if !deps.Security.Enabled() {
			return mcperr.New(mcperr.PermissionDenied, "no allowed directories configured; set "+security.EnvAllowedDirs), nil
		}
		path, err := deps.Security.ValidateOpenPath(in.Path)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrUnsupportedExtension):
				return mcperr.New(mcperr.UnsupportedFormat, ""), nil
			case errors.Is(err, security.ErrNotAllowed):
				return mcperr.New(mcperr.PermissionDenied, ""), nil
			case errors.Is(err, security.ErrNotFound):
				return mcperr.Wrapf(mcperr.OpenFailed, "file not found: %s", in.Path), nil
			default:
				return mcperr.Wrapf(mcperr.OpenFailed, "%v", err), nil
			}
		}

		source := dataset.NewWorkbookSource(path, in.Sheet)
		headers, rows, err := source.Fetch(ctx)
		if err != nil {
			return mcperr.Wrapf(mcperr.OpenFailed, "%v", err), nil
		}
		snap, err := deps.Store.Install(headers, rows, source.Name())
		if err != nil {
			return mcperr.New(mcperr.StaleRefresh, ""), nil
		}
		out := snapshotInfo(snap)
		summary := fmt.Sprintf("records=%d version=%d source=%s", out.Records, out.Version, out.Source)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(load)

	// dataset_status
	status := mcp.NewTool(
		"dataset_status",
		mcp.WithDescription("Report whether a dataset snapshot is installed, where it came from, how many records it holds, and how many week buckets its approach dates span. Cheap; safe to call before any analysis."),
		mcp.WithOutputSchema[DatasetStatusOutput](),
	)
	s.AddTool(status, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in DatasetStatusInput) (*mcp.CallToolResult, error) {
		out := DatasetStatusOutput{}
		if snap, errRes := currentSnapshot(deps); errRes == nil {
			out.Loaded = true
			out.Snapshot = snapshotInfo(snap)
			out.Weeks = len(insights.AvailableWeeks(snap.Records))
		}
		summary := fmt.Sprintf("loaded=%v records=%d weeks=%d", out.Loaded, out.Snapshot.Records, out.Weeks)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(status)

	// list_weeks
	weeks := mcp.NewTool(
		"list_weeks",
		mcp.WithDescription("List the distinct Monday-anchored week buckets of the records' approach dates, newest first. Keys look like 2024/05/13の週 and feed the week parameter of the analysis tools."),
		mcp.WithOutputSchema[ListWeeksOutput](),
	)
	s.AddTool(weeks, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ListWeeksInput) (*mcp.CallToolResult, error) {
		snap, errRes := currentSnapshot(deps)
		if errRes != nil {
			return errRes, nil
		}
		out := ListWeeksOutput{Weeks: insights.AvailableWeeks(snap.Records)}
		out.Count = len(out.Weeks)
		summary := fmt.Sprintf("weeks=%d", out.Count)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(weeks)

	// preview_records
	preview := mcp.NewTool(
		"preview_records",
		mcp.WithDescription("Page through raw records projected onto the curated display columns. Supports an optional week filter and opaque continuation cursors; a cursor is bound to the snapshot version it was cut from and becomes CURSOR_INVALID after a refresh."),
		mcp.WithInputSchema[PreviewRecordsInput](),
		mcp.WithOutputSchema[PreviewRecordsOutput](),
	)
	s.AddTool(preview, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in PreviewRecordsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		snap, errRes := currentSnapshot(deps)
		if errRes != nil {
			return errRes, nil
		}

		week := in.Week
		offset := 0
		pageSize := in.PageSize
		if pageSize <= 0 {
			pageSize = deps.Limits.PreviewRowLimit
		}
		if in.Cursor != "" {
			cur, err := pagination.Decode(in.Cursor)
			if err != nil {
				return mcperr.New(mcperr.CursorInvalid, ""), nil
			}
			if cur.Dsv != snap.Version {
				return mcperr.New(mcperr.CursorInvalid, "dataset changed since the cursor was issued"), nil
			}
			week = cur.Wk
			offset = cur.Off
			pageSize = cur.Ps
		}

		records := insights.FilterWeek(snap.Records, week)
		total := len(records)
		if offset > total {
			offset = total
		}
		end := offset + pageSize
		if end > total {
			end = total
		}

		columns := displayColumns(snap.Headers)
		rows := make([]map[string]string, 0, end-offset)
		for _, r := range records[offset:end] {
			row := make(map[string]string, len(columns))
			for _, c := range columns {
				if v := r.Get(c); v != "" {
					row[c] = v
				}
			}
			rows = append(rows, row)
		}

		out := PreviewRecordsOutput{Columns: columns, Rows: rows, Week: week}
		out.Meta = PageMeta{Total: total, Returned: len(rows), Truncated: end < total}

		if payload, err := json.Marshal(out); err == nil && len(payload) > deps.Limits.MaxPayloadBytes {
			return mcperr.Wrapf(mcperr.PayloadTooLarge, "page of %d rows exceeds %d bytes", len(rows), deps.Limits.MaxPayloadBytes), nil
		}

		if out.Meta.Truncated {
			token, err := pagination.Encode(pagination.Cursor{
				Dsv: snap.Version,
				Off: pagination.NextOffset(offset, len(rows)),
				Ps:  pageSize,
				Wk:  week,
			})
			if err != nil {
				return mcperr.New(mcperr.CursorBuildFailed, ""), nil
			}
			out.Meta.NextCursor = token
		}

		summary := fmt.Sprintf("returned=%d total=%d truncated=%v", out.Meta.Returned, out.Meta.Total, out.Meta.Truncated)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(preview)
}

// displayColumns intersects the curated display-column order with the
// snapshot's actual headers so projections never invent columns.
func displayColumns(headers []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	out := make([]string, 0, len(dataset.DisplayHeaders))
	for _, c := range dataset.DisplayHeaders {
		if _, ok := present[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
