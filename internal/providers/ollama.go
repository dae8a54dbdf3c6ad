package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultOllamaHost        = "http://localhost:11434"
	defaultOllamaTimeout     = 10 * time.Minute
	defaultOllamaTemperature = 0.3
)

// Ollama talks to a local Ollama server over its native JSON API. The
// timeout ceiling is long by default because on-machine inference can take
// minutes. The wire protocol supports streaming but this adapter always
// requests stream:false; partial delivery is not implemented.
type Ollama struct {
	host   string
	model  string
	client *resty.Client
}

// NewOllama creates an Ollama adapter. host falls back to the default
// local server, timeout to 10 minutes.
func NewOllama(host, model string, timeout time.Duration) *Ollama {
	if host == "" {
		host = defaultOllamaHost
	}
	host = strings.TrimRight(host, "/")
	if timeout <= 0 {
		timeout = defaultOllamaTimeout
	}
	return &Ollama{
		host:   host,
		model:  model,
		client: resty.New().SetBaseURL(host).SetTimeout(timeout),
	}
}

func (o *Ollama) Name() string  { return "ollama" }
func (o *Ollama) Model() string { return o.model }

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

func (o *Ollama) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	temperature := defaultOllamaTemperature
	if req.Options.Temperature != nil {
		temperature = *req.Options.Temperature
	}

	body := ollamaGenerateRequest{
		Model:   o.model,
		Prompt:  req.Prompt,
		System:  req.System,
		Stream:  false,
		Options: map[string]any{"temperature": temperature},
	}

	var result ollamaGenerateResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/api/generate")
	if err != nil {
		return GenerateResult{}, fmt.Errorf("ollama generate: %v: %w", err, classifyTransportErr(err))
	}
	if resp.StatusCode() == 429 {
		return GenerateResult{}, fmt.Errorf("ollama generate: %s: %w", resp.Status(), ErrRateLimited)
	}
	if resp.IsError() {
		return GenerateResult{}, fmt.Errorf("ollama generate: %s: %s: %w", resp.Status(), resp.String(), ErrUnavailable)
	}
	if result.Response == "" {
		return GenerateResult{}, fmt.Errorf("ollama generate: empty response field: %w", ErrProtocol)
	}

	model := result.Model
	if model == "" {
		model = o.model
	}
	return GenerateResult{
		Text:     result.Response,
		Provider: o.Name(),
		Model:    model,
	}, nil
}

// HealthCheck probes the models-listing endpoint.
func (o *Ollama) HealthCheck(ctx context.Context) error {
	resp, err := o.client.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return fmt.Errorf("ollama health check: %v: %w", err, classifyTransportErr(err))
	}
	if resp.IsError() {
		return fmt.Errorf("ollama health check: %s: %w", resp.Status(), ErrUnavailable)
	}
	return nil
}

// ListModels returns the names of models the server has pulled.
func (o *Ollama) ListModels(ctx context.Context) ([]string, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	resp, err := o.client.R().SetContext(ctx).SetResult(&result).Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("ollama list models: %v: %w", err, classifyTransportErr(err))
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ollama list models: %s: %w", resp.Status(), ErrUnavailable)
	}
	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (o *Ollama) Close() error {
	o.client.GetClient().CloseIdleConnections()
	return nil
}
