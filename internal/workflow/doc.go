// Package workflow drives full reconciliation runs: it walks an export
// tree, reconciles each directory independently, applies the resulting
// renames and embeds, and records everything in the report store.
//
// Directories are independent matching domains, so they are processed by a
// bounded worker pool. A file lock prevents two runs from racing on the
// same filesystem.
package workflow
