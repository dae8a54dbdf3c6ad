package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != 3003 {
		t.Errorf("Port = %d, want 3003", cfg.Port)
	}
	if cfg.Providers.Primary != "ollama" {
		t.Errorf("Primary = %q, want ollama", cfg.Providers.Primary)
	}
	if cfg.Providers.Fallback != "openai" {
		t.Errorf("Fallback = %q, want openai", cfg.Providers.Fallback)
	}
	if cfg.Providers.Ollama.TimeoutSeconds != 600 {
		t.Errorf("Ollama timeout = %d, want 600", cfg.Providers.Ollama.TimeoutSeconds)
	}
	if cfg.RateLimit.RequestsPerMinute != 300 {
		t.Errorf("RequestsPerMinute = %d, want 300", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.Analysis.RedactSecrets {
		t.Error("RedactSecrets default = true, want false")
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled default = true, want false")
	}
	if cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("Cache.TTLSeconds = %d, want 3600", cfg.Cache.TTLSeconds)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_FALLBACK", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OLLAMA_TIMEOUT", "60")
	t.Setenv("REDACT_SECRETS", "true")
	t.Setenv("CACHE_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Providers.Primary != "openai" {
		t.Errorf("Primary = %q, want openai", cfg.Providers.Primary)
	}
	if cfg.Providers.Fallback != "" {
		t.Errorf("Fallback = %q, want empty", cfg.Providers.Fallback)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Providers.Ollama.TimeoutSeconds != 60 {
		t.Errorf("timeout = %d, want 60", cfg.Providers.Ollama.TimeoutSeconds)
	}
	if !cfg.Analysis.RedactSecrets {
		t.Error("RedactSecrets = false, want env override true")
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled = false, want env override true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		wantErr  bool
	}{
		{"valid pair", "ollama", "openai", false},
		{"no fallback", "ollama", "", false},
		{"case insensitive", "Ollama", "OpenAI", false},
		{"unknown primary", "claude", "openai", true},
		{"unknown fallback", "ollama", "claude", true},
		{"same provider twice", "ollama", "ollama", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Providers: ProvidersConfig{Primary: tt.primary, Fallback: tt.fallback}}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalysisConfig_Languages(t *testing.T) {
	c := AnalysisConfig{SupportedLanguages: "Python, go ,RUST,,javascript"}
	got := c.Languages()
	want := []string{"python", "go", "rust", "javascript"}
	if len(got) != len(want) {
		t.Fatalf("Languages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Languages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
