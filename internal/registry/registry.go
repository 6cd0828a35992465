// Package registry defines the MCP tool surface of the analytics server and
// wires tool handlers to the dataset store, the insight computations, and the
// target store.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/uehara-kazuya/leadlens/config"
	"github.com/uehara-kazuya/leadlens/internal/dataset"
	"github.com/uehara-kazuya/leadlens/internal/runtime"
	"github.com/uehara-kazuya/leadlens/internal/security"
	"github.com/uehara-kazuya/leadlens/internal/targets"
)

// ToolProvider resolves MCP tool definitions and associates runtime metadata.
type ToolProvider interface {
	Tools(context.Context) ([]mcp.Tool, error)
}

// Deps bundles what tool handlers need: the dataset store, the persisted
// target store, the security manager gating local workbook loads, and the
// effective limits.
type Deps struct {
	Store    *dataset.Store
	Targets  targets.Store
	Security *security.Manager
	Ctrl     *runtime.Controller
	Limits   runtime.Limits
	Source   config.SourceConfig
	Log      zerolog.Logger
}

// Registry maintains tool definitions for discovery.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]mcp.Tool
}

// New constructs an empty Registry ready for tool population.
func New() *Registry {
	return &Registry{
		tools: map[string]mcp.Tool{},
	}
}

// Register stores a tool definition for discovery.
func (r *Registry) Register(tool mcp.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[tool.Name] = tool
}

// Get returns a tool by name when present.
func (r *Registry) Get(name string) (mcp.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns a stable-sorted list of registered tool definitions.
func (r *Registry) Tools(ctx context.Context) ([]mcp.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_ = ctx

	tools := make([]mcp.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}

	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})

	return tools, nil
}
