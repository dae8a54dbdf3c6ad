// Package orchestrator selects between the configured primary and
// fallback providers, aggregates their failures, and exposes the status
// snapshot health probes consume.
//
// The lifecycle is Uninitialized -> Initializing -> Ready. Initialize
// constructs and probes every referenced adapter; a failing primary is
// fatal only when no fallback exists. "Degraded" is never stored; it is
// computed on demand from the status snapshot. Per request the two
// possible adapter calls are strictly sequential: primary first, fallback
// only after the primary has failed, never both in parallel.
package orchestrator
