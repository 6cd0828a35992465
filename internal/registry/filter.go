package registry

import (
	"context"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReadOnlyToolFilter hides mutating tools when the server runs read-only.
// Enable by setting environment variable LEADLENS_READONLY=true.
type ReadOnlyToolFilter struct {
	readOnly bool
}

// NewReadOnlyToolFilterFromEnv constructs a filter using LEADLENS_READONLY.
func NewReadOnlyToolFilterFromEnv() *ReadOnlyToolFilter {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LEADLENS_READONLY")))
	ro := v == "1" || v == "true" || v == "yes"
	return &ReadOnlyToolFilter{readOnly: ro}
}

// FilterTools implements server tool filtering semantics. In read-only mode,
// tools with the update_ prefix are excluded from discovery; analyses and
// dataset refreshes stay available.
func (f *ReadOnlyToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if !f.readOnly {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if strings.HasPrefix(strings.ToLower(t.Name), "update_") {
			continue
		}
		out = append(out, t)
	}
	return out
}
