// Glint is an HTTP service for LLM-backed code analysis.
//
// It exposes authenticated endpoints for analyzing, optimizing,
// documenting, and explaining code, plus test generation helpers,
// backed by a local Ollama instance with automatic failover to the
// OpenAI API.
//
// Usage:
//
//	glint serve                  # start the server on the configured port
//	glint serve -c config.yaml   # start with an explicit config file
//	glint version                # print the version
//
// Configuration comes from a YAML file and well-known environment
// variables (OLLAMA_HOST, OPENAI_API_KEY, LLM_PROVIDER, ...).
package main
