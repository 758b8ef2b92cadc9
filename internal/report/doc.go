// Package report persists reconciliation run history in SQLite. Every run
// records one row per media file outcome so past runs can be listed and
// inspected from the CLI.
package report
