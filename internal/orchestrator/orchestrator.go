package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glint-dev/glint/internal/cache"
	"github.com/glint-dev/glint/internal/config"
	"github.com/glint-dev/glint/internal/providers"
)

// ErrNotInitialized is returned by Generate before Initialize succeeds.
var ErrNotInitialized = errors.New("orchestrator not initialized")

// healthCheckTimeout bounds each startup probe. Generation calls use the
// adapter's own ceiling instead.
const healthCheckTimeout = 15 * time.Second

// ProviderStatus reports one adapter's availability and configured model.
type ProviderStatus struct {
	Available bool   `json:"available"`
	Model     string `json:"model,omitempty"`
}

// Status is a point-in-time snapshot for health probes. Pure data, no I/O.
type Status struct {
	Initialized bool                      `json:"initialized"`
	Primary     string                    `json:"primary_provider"`
	Fallback    string                    `json:"fallback_provider,omitempty"`
	Providers   map[string]ProviderStatus `json:"providers"`
}

// Orchestrator owns the configured provider adapters and decides primary
// vs. fallback per request. Construct one at startup and inject it into
// every request-handling path; it is immutable after Initialize.
type Orchestrator struct {
	cfg         config.ProvidersConfig
	logger      *slog.Logger
	store       *cache.Cache
	adapters    map[string]providers.Provider
	initialized bool
}

// New creates an orchestrator. Initialize must be called before Generate.
// store may be nil or disabled; every request then reaches a provider.
func New(cfg config.ProvidersConfig, store *cache.Cache, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		adapters: make(map[string]providers.Provider),
	}
}

// Initialize constructs and health-checks every adapter referenced by the
// primary or fallback role. A failing primary is fatal only when no
// fallback is configured; otherwise the adapter is left unavailable and
// requests through it fail with Unavailable until a restart.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.logger.Info("initializing providers",
		"primary", o.cfg.Primary, "fallback", o.cfg.Fallback)

	for _, name := range o.referenced() {
		adapter, err := o.construct(name)
		if err == nil {
			probeCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			err = adapter.HealthCheck(probeCtx)
			cancel()
		}
		if err != nil {
			if name == o.cfg.Primary && o.cfg.Fallback == "" {
				return fmt.Errorf("primary provider %s unavailable and no fallback configured: %w", name, err)
			}
			o.logger.Warn("provider initialization failed", "provider", name, "error", err)
			if adapter != nil {
				adapter.Close()
			}
			continue
		}
		o.adapters[name] = adapter
		o.logger.Info("provider initialized", "provider", name, "model", adapter.Model())
	}

	o.initialized = true
	return nil
}

func (o *Orchestrator) referenced() []string {
	names := []string{o.cfg.Primary}
	if o.cfg.Fallback != "" && o.cfg.Fallback != o.cfg.Primary {
		names = append(names, o.cfg.Fallback)
	}
	return names
}

func (o *Orchestrator) construct(name string) (providers.Provider, error) {
	switch name {
	case "ollama":
		return providers.NewOllama(o.cfg.Ollama.Host, o.cfg.Ollama.Model, o.cfg.Ollama.Timeout()), nil
	case "openai":
		return providers.NewOpenAI(o.cfg.OpenAI.APIKey, o.cfg.OpenAI.Model, o.cfg.OpenAI.BaseURL,
			o.cfg.OpenAI.MaxTokens, o.cfg.OpenAI.Temperature)
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

// Generate runs the request against the primary adapter and, on failure,
// against the fallback with the identical request. Exactly one adapter
// contributes to a successful result; there is no retry against the same
// adapter and no racing.
func (o *Orchestrator) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResult, error) {
	if !o.initialized {
		return providers.GenerateResult{}, ErrNotInitialized
	}

	key := cache.BuildKey(o.cfg.Primary, o.cfg.Fallback, req.System, req.Prompt)
	if o.store.Enabled() {
		if entry, ok := o.store.Get(key); ok {
			o.logger.Debug("cache hit", "provider", entry.Provider)
			return providers.GenerateResult{
				Text:     entry.Response,
				Provider: entry.Provider,
				Model:    entry.Model,
			}, nil
		}
	}

	result, primaryErr := o.generateWith(ctx, o.cfg.Primary, req)
	if primaryErr == nil {
		o.storeResult(key, result)
		return result, nil
	}
	o.logger.Warn("primary provider failed", "provider", o.cfg.Primary, "error", primaryErr)

	if o.cfg.Fallback == "" {
		return providers.GenerateResult{}, fmt.Errorf("generation failed: %w", primaryErr)
	}

	result, fallbackErr := o.generateWith(ctx, o.cfg.Fallback, req)
	if fallbackErr == nil {
		o.logger.Info("fallback provider succeeded", "provider", o.cfg.Fallback)
		o.storeResult(key, result)
		return result, nil
	}
	o.logger.Error("fallback provider failed", "provider", o.cfg.Fallback, "error", fallbackErr)

	return providers.GenerateResult{}, fmt.Errorf("all providers failed; primary (%s): %v; fallback (%s): %v",
		o.cfg.Primary, primaryErr, o.cfg.Fallback, fallbackErr)
}

func (o *Orchestrator) storeResult(key string, result providers.GenerateResult) {
	if !o.store.Enabled() {
		return
	}
	if err := o.store.Put(key, result.Text, result.Provider, result.Model); err != nil {
		o.logger.Warn("caching response", "error", err)
	}
}

func (o *Orchestrator) generateWith(ctx context.Context, name string, req providers.GenerateRequest) (providers.GenerateResult, error) {
	adapter, ok := o.adapters[name]
	if !ok {
		return providers.GenerateResult{}, fmt.Errorf("%s adapter not available: %w", name, providers.ErrUnavailable)
	}
	return adapter.Generate(ctx, req)
}

// Status reports the orchestrator state without performing any I/O.
func (o *Orchestrator) Status() Status {
	s := Status{
		Initialized: o.initialized,
		Primary:     o.cfg.Primary,
		Fallback:    o.cfg.Fallback,
		Providers:   make(map[string]ProviderStatus, 2),
	}
	for _, name := range o.referenced() {
		_, available := o.adapters[name]
		s.Providers[name] = ProviderStatus{
			Available: available,
			Model:     o.modelFor(name),
		}
	}
	return s
}

func (o *Orchestrator) modelFor(name string) string {
	switch name {
	case "ollama":
		return o.cfg.Ollama.Model
	case "openai":
		return o.cfg.OpenAI.Model
	default:
		return ""
	}
}

// Healthy reports whether the service can serve generation requests:
// initialized with at least one of the configured roles available.
func (o *Orchestrator) Healthy() bool {
	if !o.initialized {
		return false
	}
	if _, ok := o.adapters[o.cfg.Primary]; ok {
		return true
	}
	if o.cfg.Fallback != "" {
		if _, ok := o.adapters[o.cfg.Fallback]; ok {
			return true
		}
	}
	return false
}

// Cleanup closes every constructed adapter. Adapters that were never
// constructed are simply absent from the map, so this is safe after a
// partially failed Initialize.
func (o *Orchestrator) Cleanup() {
	for name, adapter := range o.adapters {
		if err := adapter.Close(); err != nil {
			o.logger.Warn("closing provider", "provider", name, "error", err)
		}
	}
	o.logger.Info("provider cleanup complete")
}
