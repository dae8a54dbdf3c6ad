package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glint-dev/glint/internal/cache"
	"github.com/glint-dev/glint/internal/config"
	"github.com/glint-dev/glint/internal/providers"
)

type stubProvider struct {
	name          string
	model         string
	text          string
	generateErr   error
	healthErr     error
	generateCalls int
	closeCalls    int
}

func (s *stubProvider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResult, error) {
	s.generateCalls++
	if s.generateErr != nil {
		return providers.GenerateResult{}, s.generateErr
	}
	return providers.GenerateResult{Text: s.text, Provider: s.name, Model: s.model}, nil
}

func (s *stubProvider) HealthCheck(ctx context.Context) error { return s.healthErr }
func (s *stubProvider) Close() error                          { s.closeCalls++; return nil }
func (s *stubProvider) Name() string                          { return s.name }
func (s *stubProvider) Model() string                         { return s.model }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestOrchestrator wires stub adapters directly, bypassing Initialize.
func newTestOrchestrator(primary, fallback string, adapters map[string]providers.Provider) *Orchestrator {
	o := New(config.ProvidersConfig{Primary: primary, Fallback: fallback}, nil, testLogger())
	o.adapters = adapters
	o.initialized = true
	return o
}

func TestGenerate_NotInitialized(t *testing.T) {
	o := New(config.ProvidersConfig{Primary: "ollama"}, nil, testLogger())
	_, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "x"})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func TestGenerate_PrimarySucceeds(t *testing.T) {
	primary := &stubProvider{name: "ollama", model: "codellama", text: "primary result"}
	fallback := &stubProvider{name: "openai", model: "gpt-3.5-turbo", text: "fallback result"}
	o := newTestOrchestrator("ollama", "openai", map[string]providers.Provider{
		"ollama": primary, "openai": fallback,
	})

	result, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if result.Provider != "ollama" {
		t.Errorf("Provider = %q, want ollama", result.Provider)
	}
	if primary.generateCalls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.generateCalls)
	}
	if fallback.generateCalls != 0 {
		t.Errorf("fallback calls = %d, want 0 when primary succeeds", fallback.generateCalls)
	}
}

func TestGenerate_FallbackOnPrimaryFailure(t *testing.T) {
	primary := &stubProvider{name: "ollama", generateErr: fmt.Errorf("boom: %w", providers.ErrUnavailable)}
	fallback := &stubProvider{name: "openai", model: "gpt-3.5-turbo", text: "fallback result"}
	o := newTestOrchestrator("ollama", "openai", map[string]providers.Provider{
		"ollama": primary, "openai": fallback,
	})

	result, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if result.Provider != "openai" {
		t.Errorf("Provider = %q, want fallback openai", result.Provider)
	}
	if result.Text != "fallback result" {
		t.Errorf("Text = %q", result.Text)
	}
	if primary.generateCalls != 1 || fallback.generateCalls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.generateCalls, fallback.generateCalls)
	}
}

func TestGenerate_PrimaryTimeoutFallbackOK(t *testing.T) {
	primary := &stubProvider{name: "ollama", generateErr: fmt.Errorf("after 600s: %w", providers.ErrTimeout)}
	fallback := &stubProvider{name: "openai", text: "OK"}
	o := newTestOrchestrator("ollama", "openai", map[string]providers.Provider{
		"ollama": primary, "openai": fallback,
	})

	result, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if result.Text != "OK" {
		t.Errorf("Text = %q, want OK", result.Text)
	}
	if result.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", result.Provider)
	}
	if primary.generateCalls != 1 {
		t.Errorf("primary calls = %d, want 1 (no retry on timeout)", primary.generateCalls)
	}
}

func TestGenerate_BothFail(t *testing.T) {
	primary := &stubProvider{name: "ollama", generateErr: errors.New("connection refused")}
	fallback := &stubProvider{name: "openai", generateErr: errors.New("quota exceeded")}
	o := newTestOrchestrator("ollama", "openai", map[string]providers.Provider{
		"ollama": primary, "openai": fallback,
	})

	_, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Generate error = nil, want aggregated failure")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error %q missing primary failure", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q missing fallback failure", err)
	}
}

func TestGenerate_NoFallbackConfigured(t *testing.T) {
	primary := &stubProvider{name: "ollama", generateErr: errors.New("down")}
	o := newTestOrchestrator("ollama", "", map[string]providers.Provider{"ollama": primary})

	_, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Errorf("err = %v, want wrapped primary failure", err)
	}
	if primary.generateCalls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.generateCalls)
	}
}

func TestGenerate_UnavailableAdapter(t *testing.T) {
	// Primary never constructed (failed init with fallback present).
	fallback := &stubProvider{name: "openai", text: "fallback result"}
	o := newTestOrchestrator("ollama", "openai", map[string]providers.Provider{"openai": fallback})

	result, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if result.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", result.Provider)
	}
}

func TestInitialize_PrimaryDownNoFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable

	o := New(config.ProvidersConfig{
		Primary: "ollama",
		Ollama:  config.OllamaConfig{Host: server.URL, Model: "codellama", TimeoutSeconds: 1},
	}, nil, testLogger())

	if err := o.Initialize(context.Background()); err == nil {
		t.Fatal("Initialize error = nil, want fatal failure for primary with no fallback")
	}
	if o.initialized {
		t.Error("initialized = true after fatal init failure")
	}
}

func TestInitialize_PrimaryDownWithFallback(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer up.Close()

	o := New(config.ProvidersConfig{
		Primary:  "ollama",
		Fallback: "openai",
		Ollama:   config.OllamaConfig{Host: down.URL, Model: "codellama", TimeoutSeconds: 1},
		OpenAI:   config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-3.5-turbo", BaseURL: up.URL},
	}, nil, testLogger())

	if err := o.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v, want ready with degraded primary", err)
	}

	status := o.Status()
	if !status.Initialized {
		t.Error("Initialized = false")
	}
	if status.Providers["ollama"].Available {
		t.Error("ollama available = true, want false")
	}
	if !status.Providers["openai"].Available {
		t.Error("openai available = false, want true")
	}
	if !o.Healthy() {
		t.Error("Healthy() = false, want true with available fallback")
	}
}

func TestInitialize_BothUp(t *testing.T) {
	ollamaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer ollamaSrv.Close()
	openaiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer openaiSrv.Close()

	o := New(config.ProvidersConfig{
		Primary:  "ollama",
		Fallback: "openai",
		Ollama:   config.OllamaConfig{Host: ollamaSrv.URL, Model: "codellama", TimeoutSeconds: 60},
		OpenAI:   config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-3.5-turbo", BaseURL: openaiSrv.URL},
	}, nil, testLogger())

	if err := o.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	status := o.Status()
	if !status.Providers["ollama"].Available || !status.Providers["openai"].Available {
		t.Errorf("providers = %+v, want both available", status.Providers)
	}
	if status.Providers["ollama"].Model != "codellama" {
		t.Errorf("ollama model = %q", status.Providers["ollama"].Model)
	}
	o.Cleanup()
}

func TestStatus_Uninitialized(t *testing.T) {
	o := New(config.ProvidersConfig{Primary: "ollama", Fallback: "openai"}, nil, testLogger())
	status := o.Status()
	if status.Initialized {
		t.Error("Initialized = true, want false")
	}
	if status.Primary != "ollama" || status.Fallback != "openai" {
		t.Errorf("roles = %q/%q", status.Primary, status.Fallback)
	}
	if o.Healthy() {
		t.Error("Healthy() = true before init")
	}
}

func TestCleanup_ClosesEveryAdapter(t *testing.T) {
	primary := &stubProvider{name: "ollama"}
	fallback := &stubProvider{name: "openai"}
	o := newTestOrchestrator("ollama", "openai", map[string]providers.Provider{
		"ollama": primary, "openai": fallback,
	})

	o.Cleanup()
	if primary.closeCalls != 1 || fallback.closeCalls != 1 {
		t.Errorf("close calls = %d/%d, want 1/1", primary.closeCalls, fallback.closeCalls)
	}
}

func TestCleanup_ToleratesMissingAdapters(t *testing.T) {
	o := New(config.ProvidersConfig{Primary: "ollama"}, nil, testLogger())
	o.Cleanup() // nothing constructed; must not panic
}

func TestGenerate_CachedResponse(t *testing.T) {
	store, err := cache.New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatalf("cache.New error: %v", err)
	}
	primary := &stubProvider{name: "ollama", model: "codellama", text: "cached me"}
	o := New(config.ProvidersConfig{Primary: "ollama"}, store, testLogger())
	o.adapters = map[string]providers.Provider{"ollama": primary}
	o.initialized = true

	req := providers.GenerateRequest{Prompt: "same prompt", System: "same system"}
	first, err := o.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	second, err := o.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if primary.generateCalls != 1 {
		t.Errorf("provider calls = %d, want 1 (second served from cache)", primary.generateCalls)
	}
	if second.Text != first.Text || second.Provider != "ollama" || second.Model != "codellama" {
		t.Errorf("cached result = %+v, want attribution preserved", second)
	}
}

func TestGenerate_CacheMissOnDifferentPrompt(t *testing.T) {
	store, err := cache.New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatalf("cache.New error: %v", err)
	}
	primary := &stubProvider{name: "ollama", text: "fresh"}
	o := New(config.ProvidersConfig{Primary: "ollama"}, store, testLogger())
	o.adapters = map[string]providers.Provider{"ollama": primary}
	o.initialized = true

	if _, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "one"}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if _, err := o.Generate(context.Background(), providers.GenerateRequest{Prompt: "two"}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if primary.generateCalls != 2 {
		t.Errorf("provider calls = %d, want 2 for distinct prompts", primary.generateCalls)
	}
}
