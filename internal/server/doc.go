// Package server exposes the HTTP API: code-analysis task routes under
// /api guarded by JWT auth and per-client rate limiting, plus health
// probes. Handlers translate between the wire format and the
// orchestrator; they hold no provider logic of their own.
package server
