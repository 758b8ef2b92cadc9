// Package match decides whether an observed sidecar title plausibly names a
// media file, using edit distance under length-scaled thresholds.
//
// Short titles get an almost-exact budget: a fixed percentage of a short
// length rounds to nothing useful, so distance collapses to max(2, length
// difference). Long titles tolerate proportionally more noise from
// truncation, but the positional common-prefix requirement anchors the match
// to the start of the name, which truncation never touches.
package match
