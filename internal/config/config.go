package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Env       string          `mapstructure:"env"`
	Port      int             `mapstructure:"port"`
	Debug     bool            `mapstructure:"debug"`
	Log       LogConfig       `mapstructure:"log"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProvidersConfig selects the primary and fallback providers and carries
// per-adapter settings. Set once at startup, immutable afterward.
type ProvidersConfig struct {
	Primary  string       `mapstructure:"primary"`
	Fallback string       `mapstructure:"fallback"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

// OllamaConfig holds the local-backend adapter settings.
type OllamaConfig struct {
	Host           string `mapstructure:"host"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the configured ceiling as a duration.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OpenAIConfig holds the cloud-backend adapter settings.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// AuthConfig holds the token-verification settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// RateLimitConfig holds the per-client rate limit settings.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// AnalysisConfig bounds what the analysis endpoints accept.
type AnalysisConfig struct {
	MaxCodeLength      int    `mapstructure:"max_code_length"`
	SupportedLanguages string `mapstructure:"supported_languages"`
	RedactSecrets      bool   `mapstructure:"redact_secrets"`
}

// CacheConfig controls the on-disk response cache. Disabled by default;
// identical prompts then always reach a provider.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Dir        string `mapstructure:"dir"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// Languages returns the supported languages as a normalized list.
func (c AnalysisConfig) Languages() []string {
	parts := strings.Split(c.SupportedLanguages, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var validProviders = map[string]bool{"ollama": true, "openai": true}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables win; the well-known names (OLLAMA_HOST,
// OPENAI_API_KEY, LLM_PROVIDER, ...) are bound explicitly.
func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("config")
		vip.AddConfigPath(".")
		vip.AddConfigPath("./configs")
	}
	vip.SetConfigType("yaml")

	vip.SetEnvPrefix("glint")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AllowEmptyEnv(true)
	vip.AutomaticEnv()

	bindings := map[string]string{
		"env":                           "ENV",
		"port":                          "PORT",
		"debug":                         "DEBUG",
		"log.level":                     "LOG_LEVEL",
		"log.format":                    "LOG_FORMAT",
		"providers.primary":             "LLM_PROVIDER",
		"providers.fallback":            "LLM_FALLBACK",
		"providers.ollama.host":         "OLLAMA_HOST",
		"providers.ollama.model":        "OLLAMA_MODEL",
		"providers.ollama.timeout_seconds": "OLLAMA_TIMEOUT",
		"providers.openai.api_key":      "OPENAI_API_KEY",
		"providers.openai.model":        "OPENAI_MODEL",
		"providers.openai.base_url":     "OPENAI_BASE_URL",
		"providers.openai.max_tokens":   "OPENAI_MAX_TOKENS",
		"providers.openai.temperature":  "OPENAI_TEMPERATURE",
		"auth.jwt_secret":               "JWT_SECRET",
		"rate_limit.requests_per_minute": "RATE_LIMIT_RPM",
		"analysis.max_code_length":      "MAX_CODE_LENGTH",
		"analysis.supported_languages":  "SUPPORTED_LANGUAGES",
		"analysis.redact_secrets":       "REDACT_SECRETS",
		"cache.enabled":                 "CACHE_ENABLED",
		"cache.dir":                     "CACHE_DIR",
		"cache.ttl_seconds":             "CACHE_TTL",
	}
	for key, env := range bindings {
		if err := vip.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	setDefaults(vip)

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("env", "development")
	vip.SetDefault("port", 3003)
	vip.SetDefault("debug", true)
	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.format", "json")
	vip.SetDefault("providers.primary", "ollama")
	vip.SetDefault("providers.fallback", "openai")
	vip.SetDefault("providers.ollama.host", "http://localhost:11434")
	vip.SetDefault("providers.ollama.model", "codellama")
	vip.SetDefault("providers.ollama.timeout_seconds", 600)
	vip.SetDefault("providers.openai.model", "gpt-3.5-turbo")
	vip.SetDefault("providers.openai.max_tokens", 2000)
	vip.SetDefault("providers.openai.temperature", 0.3)
	vip.SetDefault("auth.jwt_secret", "your_jwt_secret_change_in_production")
	vip.SetDefault("rate_limit.requests_per_minute", 300)
	vip.SetDefault("analysis.max_code_length", 50000)
	vip.SetDefault("analysis.supported_languages", "python,javascript,typescript,java,go,rust,cpp,c")
	vip.SetDefault("analysis.redact_secrets", false)
	vip.SetDefault("cache.enabled", false)
	vip.SetDefault("cache.ttl_seconds", 3600)
}

// Validate checks provider selection. The fallback is optional; when set
// it must be a known provider distinct from the primary.
func (c *Config) Validate() error {
	primary := strings.ToLower(c.Providers.Primary)
	if !validProviders[primary] {
		return fmt.Errorf("unknown primary provider %q", c.Providers.Primary)
	}
	c.Providers.Primary = primary

	if c.Providers.Fallback != "" {
		fallback := strings.ToLower(c.Providers.Fallback)
		if !validProviders[fallback] {
			return fmt.Errorf("unknown fallback provider %q", c.Providers.Fallback)
		}
		if fallback == primary {
			return fmt.Errorf("fallback provider must differ from primary %q", primary)
		}
		c.Providers.Fallback = fallback
	}
	return nil
}
