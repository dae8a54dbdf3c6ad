package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllama_Generate(t *testing.T) {
	var gotBody ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Response: "looks fine",
			Model:    "codellama:7b",
		})
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", time.Minute)
	defer o.Close()

	result, err := o.Generate(context.Background(), GenerateRequest{
		Prompt: "review this",
		System: "you are a reviewer",
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if result.Text != "looks fine" {
		t.Errorf("Text = %q, want %q", result.Text, "looks fine")
	}
	if result.Provider != "ollama" {
		t.Errorf("Provider = %q, want ollama", result.Provider)
	}
	if result.Model != "codellama:7b" {
		t.Errorf("Model = %q, want codellama:7b", result.Model)
	}
	if gotBody.Stream {
		t.Error("Stream = true, want false")
	}
	if gotBody.System != "you are a reviewer" {
		t.Errorf("System = %q", gotBody.System)
	}
	if temp, ok := gotBody.Options["temperature"].(float64); !ok || temp != defaultOllamaTemperature {
		t.Errorf("Options temperature = %v, want %v", gotBody.Options["temperature"], defaultOllamaTemperature)
	}
}

func TestOllama_GenerateTemperatureOverride(t *testing.T) {
	var gotBody ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "ok"})
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", time.Minute)
	temp := 0.1
	if _, err := o.Generate(context.Background(), GenerateRequest{
		Prompt:  "x",
		Options: Options{Temperature: &temp},
	}); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if got := gotBody.Options["temperature"].(float64); got != 0.1 {
		t.Errorf("temperature = %v, want 0.1", got)
	}
}

func TestOllama_GenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: ""})
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", time.Minute)
	_, err := o.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("err = %v, want ErrProtocol", err)
	}
}

func TestOllama_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", time.Minute)
	_, err := o.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestOllama_GenerateRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", time.Minute)
	_, err := o.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestOllama_GenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "too late"})
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", 50*time.Millisecond)
	_, err := o.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestOllama_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", time.Minute)
	if err := o.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck error: %v", err)
	}
}

func TestOllama_HealthCheckUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down before probing

	o := NewOllama(server.URL, "codellama", time.Second)
	if err := o.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck error = nil, want non-nil for unreachable server")
	}
}

func TestOllama_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"codellama:7b"},{"name":"mistral"}]}`))
	}))
	defer server.Close()

	o := NewOllama(server.URL, "codellama", time.Minute)
	models, err := o.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels error: %v", err)
	}
	if len(models) != 2 || models[0] != "codellama:7b" || models[1] != "mistral" {
		t.Errorf("models = %v", models)
	}
}

func TestOllama_CloseIdempotent(t *testing.T) {
	o := NewOllama("", "codellama", 0)
	if err := o.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestOllama_Defaults(t *testing.T) {
	o := NewOllama("http://example.com/", "codellama", 0)
	if o.host != "http://example.com" {
		t.Errorf("host = %q, trailing slash not stripped", o.host)
	}
	o = NewOllama("", "codellama", 0)
	if o.host != defaultOllamaHost {
		t.Errorf("host = %q, want default", o.host)
	}
}
