// Package executor applies resolutions produced by the reconciliation
// engine: sidecar renames, optional metadata embedding, and read-back
// verification.
//
// In dry-run mode every action is logged instead of performed; the engine's
// decisions are identical either way, only their execution is conditional.
// No failure here unwinds a directory session.
package executor
