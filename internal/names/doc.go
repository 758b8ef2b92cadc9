// Package names decomposes export filenames into their base name, duplicate
// suffix, and extension, and classifies directory entries as media files or
// JSON sidecars.
//
// The export process appends parenthesized counters to disambiguate files
// with identical names (IMG_0001(1).jpg) and strips those counters from the
// titles stored inside sidecars, so every matching decision downstream starts
// from the decomposition this package provides.
package names
