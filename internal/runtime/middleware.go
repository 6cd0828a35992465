package runtime

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/uehara-kazuya/leadlens/pkg/mcperr"
)

// Middleware applies the runtime guardrails to every tool call: a bounded
// wait for a request slot, then an operation deadline on the handler.
type Middleware struct {
	ctrl *Controller
}

// NewMiddleware binds a Middleware to the Controller's limits.
func NewMiddleware(ctrl *Controller) *Middleware {
	return &Middleware{ctrl: ctrl}
}

// ToolMiddleware wraps a tool handler with slot acquisition and a deadline.
// Saturation and deadline hits surface as tool-level BUSY_RESOURCE and
// TIMEOUT results so clients can back off and retry instead of seeing a
// transport error.
func (m *Middleware) ToolMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		release, ok := m.acquireSlot(ctx)
		if !ok {
			return mcperr.Wrapf(mcperr.BusyResource, "concurrent request limit reached (max=%d)", m.ctrl.limits.MaxConcurrentRequests), nil
		}
		defer release()

		callCtx := ctx
		cancel := func() {}
		if d := m.ctrl.limits.OperationTimeout; d > 0 {
			callCtx, cancel = context.WithTimeout(ctx, d)
		}
		defer cancel()

		res, err := next(callCtx, req)
		if errors.Is(err, context.DeadlineExceeded) ||
			(err == nil && res == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded)) {
			return mcperr.New(mcperr.Timeout, ""), nil
		}
		return res, err
	}
}

// acquireSlot waits up to AcquireRequestTimeout for request capacity. The
// returned release must be called exactly once when ok is true.
func (m *Middleware) acquireSlot(ctx context.Context) (func(), bool) {
	acquireCtx := ctx
	cancel := func() {}
	if d := m.ctrl.limits.AcquireRequestTimeout; d > 0 {
		acquireCtx, cancel = context.WithTimeout(ctx, d)
	}
	defer cancel()

	if err := m.ctrl.AcquireRequest(acquireCtx); err != nil {
		return nil, false
	}
	return m.ctrl.ReleaseRequest, true
}
