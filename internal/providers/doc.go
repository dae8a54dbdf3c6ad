// Package providers implements the Provider interface for each supported
// generation backend.
//
// Two variants exist: Ollama for local models (native JSON API, long
// timeout ceiling for slow on-machine inference) and OpenAI for cloud
// models (chat-completions API, credential required). New backends are
// added as new variants of the closed set, not ad hoc attribute checks.
//
// Failures are classified against a fixed taxonomy of sentinel errors
// (ErrUnavailable, ErrTimeout, ErrRateLimited, ErrAuth, ErrProtocol,
// ErrUnconfigured) so the orchestrator can aggregate and report them
// uniformly. Base URLs are injectable so tests can redirect calls to local
// httptest servers without making live API requests.
package providers
