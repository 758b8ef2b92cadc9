// Package preflight runs readiness checks before a reconciliation run:
// export root accessibility, writable state directories, and the exiftool
// binary when embedding is enabled.
package preflight
