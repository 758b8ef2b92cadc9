// Package tuning defines the reconciliation tuning parameters and the
// optional pre-analysis pass that derives them from a sample of the export
// tree.
//
// Parameters are an immutable value threaded explicitly through matching
// calls; nothing in this package or its consumers mutates a Parameters after
// construction.
package tuning
