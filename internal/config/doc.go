// Package config loads service configuration from an optional YAML file
// and the environment, with environment variables taking precedence.
// Defaults mirror a local development setup: Ollama primary on
// localhost:11434, OpenAI fallback.
package config
