package mcperr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code defines a canonical MCP error code used across tools.
type Code string

const (
	// Validation & Input
	Validation        Code = "VALIDATION"
	CursorInvalid     Code = "CURSOR_INVALID"
	CursorBuildFailed Code = "CURSOR_BUILD_FAILED"

	// Resource & Limits
	BusyResource    Code = "BUSY_RESOURCE"
	Timeout         Code = "TIMEOUT"
	PayloadTooLarge Code = "PAYLOAD_TOO_LARGE"

	// Data source
	FetchFailed  Code = "FETCH_FAILED"
	StaleRefresh Code = "STALE_REFRESH"
	EmptyDataset Code = "EMPTY_DATASET"
	OpenFailed   Code = "OPEN_FAILED"

	// Analysis
	AnalysisFailed Code = "ANALYSIS_FAILED"

	// Persistence
	StoreFailed Code = "STORE_FAILED"

	// Filesystem / formats
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	PermissionDenied  Code = "PERMISSION_DENIED"
)

// Entry documents a code's standard message, retry semantics, and next steps.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation:        {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},
	CursorInvalid:     {Code: CursorInvalid, Message: "cursor is invalid for current dataset", Retryable: true, NextSteps: []string{"Restart pagination from the first page", "Re-run refresh_data before paging"}},
	CursorBuildFailed: {Code: CursorBuildFailed, Message: "failed to encode next page cursor", Retryable: true, NextSteps: []string{"Retry with a smaller page size"}},

	BusyResource:    {Code: BusyResource, Message: "concurrent request limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:         {Code: Timeout, Message: "operation exceeded configured time limit", Retryable: true, NextSteps: []string{"Retry, or narrow scope with a week filter"}},
	PayloadTooLarge: {Code: PayloadTooLarge, Message: "payload exceeds configured size", Retryable: true, NextSteps: []string{"Reduce page size or narrow the week filter"}},

	FetchFailed:  {Code: FetchFailed, Message: "failed to download CSV export", Retryable: true, NextSteps: []string{"Check sheet publication settings and retry", "Retry is manual; no automatic retries are attempted"}},
	StaleRefresh: {Code: StaleRefresh, Message: "a newer refresh completed first; result discarded", Retryable: true, NextSteps: []string{"Use the current snapshot or refresh again"}},
	EmptyDataset: {Code: EmptyDataset, Message: "no dataset loaded yet", Retryable: true, NextSteps: []string{"Call refresh_data or load_workbook first"}},
	OpenFailed:   {Code: OpenFailed, Message: "failed to open workbook", Retryable: true, NextSteps: []string{"Verify path, permissions, and format"}},

	AnalysisFailed: {Code: AnalysisFailed, Message: "analysis failed", Retryable: true, NextSteps: []string{"Verify filters and retry"}},

	StoreFailed: {Code: StoreFailed, Message: "target store operation failed", Retryable: true, NextSteps: []string{"Check the targets DB path is writable"}},

	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported workbook format", Retryable: false, NextSteps: []string{"Convert to .xlsx and retry"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "insufficient permissions to access path", Retryable: false, NextSteps: []string{"Adjust permissions or choose an allowed directory"}},
}

// normalize builds a standard error string including next steps for MCP clients
// that surface only a message string. Format: "CODE: message" plus a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
		if base == "" {
			return string(code)
		}
		return fmt.Sprintf("%s: %s", string(code), base)
	}
	if base == "" {
		base = e.Message
	}
	guidance := ""
	if len(e.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(e.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}

// FromText parses a "CODE: message" string, enriches it with catalog guidance,
// and returns an MCP tool error result.
func FromText(text string) *mcp.CallToolResult {
	t := strings.TrimSpace(text)
	if t == "" {
		return mcp.NewToolResultError(normalize(Validation, ""))
	}
	parts := strings.SplitN(t, ":", 2)
	code := Code(strings.TrimSpace(parts[0]))
	msg := ""
	if len(parts) > 1 {
		msg = strings.TrimSpace(parts[1])
	}
	return mcp.NewToolResultError(normalize(code, msg))
}
