// Package exiftool wraps the external exiftool binary for metadata embedding
// and read-back verification.
//
// The client keeps one long-lived exiftool process (stay_open mode via
// go-exiftool) per instance; callers own its lifecycle and must Close it.
package exiftool
