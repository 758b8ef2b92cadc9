// Package reconcile pairs media files with their JSON sidecars inside a
// single directory.
//
// Sidecar names drift from their media file in three ways: the suffix
// vocabulary varies ("supplemental-metadata" truncated to any prefix), a
// duplicate counter may sit on either side of the .json extension, and the
// whole name may be cut to a length limit. A session probes candidate
// patterns in a fixed priority order (exact suffix shapes, generic wildcard
// shapes, then progressively truncated prefixes) and accepts the first
// sidecar whose cached title matches the media file's expected title exactly
// or within the fuzzy tolerances of the match package.
//
// Within a session no sidecar is ever handed to two media files: an
// assignment set is consulted before any title comparison and grows as
// resolutions are emitted. Sessions own all their state; directories are
// independent and may run in parallel.
package reconcile
