package providers

import "context"

// Options bounds the per-request generation knobs. Anything a caller may
// tune is an explicit field here; there is no opaque pass-through.
type Options struct {
	Temperature *float64
	MaxTokens   int
	Stream      bool
}

// GenerateRequest contains one prompt sent to a backend.
type GenerateRequest struct {
	Prompt  string
	System  string
	Options Options
}

// TokenUsage carries token counters when the backend reports them.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerateResult is the normalized output of one successful call.
type GenerateResult struct {
	Text     string      `json:"text"`
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Usage    *TokenUsage `json:"usage,omitempty"`
}

// Provider is the capability contract every generation backend implements.
// The set of variants is closed: Ollama for local models, OpenAI for cloud.
type Provider interface {
	// Generate sends one request to the backend. Failures are classified
	// against the sentinel errors in errors.go.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)

	// HealthCheck probes the backend. It propagates the error rather than
	// returning false so callers can tell "unreachable" from "unhealthy".
	HealthCheck(ctx context.Context) error

	// Close releases the underlying connection. Idempotent; safe to call
	// even if the provider never made a request.
	Close() error

	Name() string
	Model() string
}
