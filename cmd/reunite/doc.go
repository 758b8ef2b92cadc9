// Command reunite reconciles Google Takeout media exports: it matches
// media files back to their JSON metadata sidecars, renames sidecars to the
// canonical layout, and optionally embeds the metadata with exiftool.
package main
