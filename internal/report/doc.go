// Package report formats analysis results for machine consumption.
//
// Two formats beyond the API's native JSON body are supported:
//   - markdown — PR-comment-friendly with collapsible sections per severity
//   - sarif    — SARIF v2.1.0 for upload to code-scanning integrations
//
// Use [Get] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*analysis.Result].
package report
