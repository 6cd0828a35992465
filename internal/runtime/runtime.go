package runtime

import (
	"context"
	"time"

	"github.com/uehara-kazuya/leadlens/config"
	"golang.org/x/sync/semaphore"
)

// Limits captures the concurrency and payload guardrails configured for the server.
type Limits struct {
	// Concurrency caps
	MaxConcurrentRequests int
	MaxConcurrentFetches  int

	// Payload and row bounds
	MaxPayloadBytes int
	PreviewRowLimit int

	// Timeouts
	OperationTimeout      time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits with sensible fallbacks when values are unset.
func NewLimits(maxConcurrentRequests, maxConcurrentFetches int) Limits {
	if maxConcurrentRequests <= 0 {
		maxConcurrentRequests = config.DefaultMaxConcurrentRequests
	}
	if maxConcurrentFetches <= 0 {
		maxConcurrentFetches = config.DefaultMaxConcurrentFetches
	}

	return Limits{
		MaxConcurrentRequests: maxConcurrentRequests,
		MaxConcurrentFetches:  maxConcurrentFetches,
		MaxPayloadBytes:       config.DefaultMaxPayloadBytes,
		PreviewRowLimit:       config.DefaultPreviewRowLimit,
		OperationTimeout:      config.DefaultOperationTimeout,
		AcquireRequestTimeout: config.DefaultAcquireRequestTimeout,
	}
}

// FromConfig builds Limits from the loaded configuration.
func FromConfig(cfg config.LimitsConfig) Limits {
	l := NewLimits(cfg.MaxConcurrentRequests, cfg.MaxConcurrentFetches)
	if cfg.MaxPayloadBytes > 0 {
		l.MaxPayloadBytes = cfg.MaxPayloadBytes
	}
	if cfg.PreviewRowLimit > 0 {
		l.PreviewRowLimit = cfg.PreviewRowLimit
	}
	if cfg.OperationTimeout.Std() > 0 {
		l.OperationTimeout = cfg.OperationTimeout.Std()
	}
	return l
}

// Controller coordinates runtime semaphores for request and fetch guardrails.
type Controller struct {
	limits           Limits
	requestSemaphore *semaphore.Weighted
	fetchSemaphore   *semaphore.Weighted
}

// NewController constructs a Controller backed by weighted semaphores.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:           limits,
		requestSemaphore: semaphore.NewWeighted(int64(limits.MaxConcurrentRequests)),
		fetchSemaphore:   semaphore.NewWeighted(int64(limits.MaxConcurrentFetches)),
	}
}

// AcquireRequest reserves capacity for an incoming tool call.
func (c *Controller) AcquireRequest(ctx context.Context) error {
	return c.requestSemaphore.Acquire(ctx, 1)
}

// ReleaseRequest frees previously-acquired request capacity.
func (c *Controller) ReleaseRequest() {
	c.requestSemaphore.Release(1)
}

// AcquireFetch reserves a source-fetch slot so overlapping refreshes queue up.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	return c.fetchSemaphore.Acquire(ctx, 1)
}

// ReleaseFetch frees a source-fetch slot.
func (c *Controller) ReleaseFetch() {
	c.fetchSemaphore.Release(1)
}

// LimitsSnapshot exposes the configured guardrails for telemetry and discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
