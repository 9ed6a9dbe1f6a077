package health

import (
	"context"
	"fmt"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultProbeTimeout bounds a single probe when none is configured
const DefaultProbeTimeout = 2 * time.Second

const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDisabled = "disabled"

	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Pinger is anything with a lightweight reachability probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderSource resolves the provider the diagnostics should probe
type ProviderSource interface {
	DefaultProvider() string
	GetProvider(name string) (llm.Provider, error)
}

// Probe is the result for one collaborator
type Probe struct {
	Name      string `json:"name,omitempty"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Report aggregates every probe
type Report struct {
	Status    string    `json:"status"`
	Provider  Probe     `json:"provider"`
	Store     Probe     `json:"store"`
	Cache     Probe     `json:"cache"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker probes the model provider, the document store and, when
// configured, Redis
type Checker struct {
	providers ProviderSource
	store     Pinger
	storeName string
	cache     Pinger
	timeout   time.Duration
}

// NewChecker creates a new health checker. cache may be nil.
func NewChecker(providers ProviderSource, store Pinger, storeName string, cache Pinger, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Checker{
		providers: providers,
		store:     store,
		storeName: storeName,
		cache:     cache,
		timeout:   timeout,
	}
}

// Check runs every probe concurrently. A collaborator that is down is
// reported in the result, it never fails the check itself.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{
		Cache:     Probe{Name: "redis", Status: StatusDisabled},
		CheckedAt: time.Now().UTC(),
	}

	// probes never return an error so the group only joins them
	var g errgroup.Group

	g.Go(func() error {
		name := c.providers.DefaultProvider()
		p, err := c.providers.GetProvider(name)
		if err != nil {
			report.Provider = Probe{Name: name, Status: StatusDown, Error: err.Error()}
			return nil
		}
		report.Provider = c.probe(ctx, name, p)
		return nil
	})

	g.Go(func() error {
		report.Store = c.probe(ctx, c.storeName, c.store)
		return nil
	})

	if c.cache != nil {
		g.Go(func() error {
			report.Cache = c.probe(ctx, "redis", c.cache)
			return nil
		})
	}

	_ = g.Wait()

	report.Status = aggregate(report)
	if report.Status != StatusOK {
		log.Warn().
			Str("status", report.Status).
			Str("provider", report.Provider.Status).
			Str("store", report.Store.Status).
			Str("cache", report.Cache.Status).
			Msg("health check degraded")
	}
	return report
}

func (c *Checker) probe(ctx context.Context, name string, p Pinger) Probe {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result := Probe{Name: name, Status: StatusUp}

	// Ping implementations that ignore ctx must not hold the check open
	done := make(chan error, 1)
	go func() { done <- p.Ping(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			result.Status = StatusDown
			result.Error = err.Error()
		}
	case <-ctx.Done():
		result.Status = StatusDown
		result.Error = fmt.Sprintf("no response within %s", c.timeout)
	}
	result.LatencyMs = time.Since(start).Milliseconds()
	return result
}

func aggregate(r Report) string {
	providerDown := r.Provider.Status == StatusDown
	storeDown := r.Store.Status == StatusDown

	switch {
	case providerDown && storeDown:
		return StatusDown
	case providerDown || storeDown || r.Cache.Status == StatusDown:
		return StatusDegraded
	default:
		return StatusOK
	}
}
