// Package sidecar reads the JSON metadata files the export process writes
// next to each media file.
//
// Reads are deliberately forgiving: a sidecar that is missing, unparseable,
// or lacks a title yields an empty title rather than an error, which demotes
// it to "unlikely to match" instead of failing the directory session.
package sidecar
