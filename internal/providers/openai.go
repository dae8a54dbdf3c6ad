package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
	defaultOpenAITimeout     = 120 * time.Second
	placeholderOpenAIKey     = "your_openai_api_key_here"
	defaultOpenAIMaxTokens   = 2000
	defaultOpenAITemperature = 0.3
)

// OpenAI talks to the chat-completions API. A non-empty, non-placeholder
// API key is required for the adapter to be considered configured.
type OpenAI struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewOpenAI creates an OpenAI adapter. It fails with ErrUnconfigured when
// the key is missing or still the placeholder from a sample env file.
func NewOpenAI(apiKey, model, baseURL string, maxTokens int, temperature float64) (*OpenAI, error) {
	if apiKey == "" || apiKey == placeholderOpenAIKey {
		return nil, fmt.Errorf("openai: missing API key: %w", ErrUnconfigured)
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if maxTokens <= 0 {
		maxTokens = defaultOpenAIMaxTokens
	}
	if temperature <= 0 {
		temperature = defaultOpenAITemperature
	}
	return &OpenAI{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		maxTokens:   maxTokens,
		temperature: temperature,
		client:      &http.Client{Timeout: defaultOpenAITimeout},
	}, nil
}

func (o *OpenAI) Name() string  { return "openai" }
func (o *OpenAI) Model() string { return o.model }

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openaiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}

func (o *OpenAI) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	temperature := o.temperature
	if req.Options.Temperature != nil {
		temperature = *req.Options.Temperature
	}
	maxTokens := o.maxTokens
	if req.Options.MaxTokens > 0 && req.Options.MaxTokens < maxTokens {
		maxTokens = req.Options.MaxTokens
	}

	messages := make([]openaiMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openaiMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(openaiRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return GenerateResult{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("openai generate: %v: %w", err, classifyTransportErr(err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("reading response: %w", err)
	}

	if err := classifyOpenAIStatus(httpResp.StatusCode, respBody); err != nil {
		return GenerateResult{}, fmt.Errorf("openai generate: %w", err)
	}

	var result openaiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return GenerateResult{}, fmt.Errorf("openai generate: parsing response: %v: %w", err, ErrProtocol)
	}
	if len(result.Choices) == 0 {
		return GenerateResult{}, fmt.Errorf("openai generate: no choices in response: %w", ErrProtocol)
	}
	if result.Choices[0].Message.Content == "" {
		return GenerateResult{}, fmt.Errorf("openai generate: empty message content: %w", ErrProtocol)
	}

	model := result.Model
	if model == "" {
		model = o.model
	}
	usage := result.Usage
	return GenerateResult{
		Text:     result.Choices[0].Message.Content,
		Provider: o.Name(),
		Model:    model,
		Usage:    &usage,
	}, nil
}

// HealthCheck lists models, which verifies both reachability and the key.
func (o *OpenAI) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai health check: %v: %w", err, classifyTransportErr(err))
	}
	defer httpResp.Body.Close()

	respBody, _ := io.ReadAll(httpResp.Body)
	if err := classifyOpenAIStatus(httpResp.StatusCode, respBody); err != nil {
		return fmt.Errorf("openai health check: %w", err)
	}
	return nil
}

func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

func classifyOpenAIStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("status %d: %s: %w", status, body, ErrAuth)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("status %d: %w", status, ErrRateLimited)
	case status >= 500:
		return fmt.Errorf("status %d: %s: %w", status, body, ErrUnavailable)
	default:
		return fmt.Errorf("unexpected status %d: %s: %w", status, body, ErrProtocol)
	}
}
