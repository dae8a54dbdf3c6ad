// Package analysis contains the finding types, prompt builders, and the
// heuristic parser that turns free-form model output into structured
// findings.
//
// The parser is rule-based, not learned: ordered regex tables classify
// severity and category with first-match-wins semantics and declared
// defaults (medium, bug), so behavior is deterministic and testable
// without any NLP dependency. Parse never fails; unparseable text
// degrades to zero findings with the raw text passed through.
package analysis
