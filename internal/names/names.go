package names

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// CanonicalSuffix is the sidecar suffix every matched sidecar is renamed to.
const CanonicalSuffix = "supplemental-metadata"

var duplicateSuffixPattern = regexp.MustCompile(`\((\d+)\)$`)

var mediaExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".tiff": {},
	".heic": {},
	".heif": {},
	".mp4":  {},
	".mov":  {},
	".avi":  {},
}

// SplitDuplicate separates a trailing parenthesized counter from a name
// without extension. Every input has a valid decomposition; names without a
// counter return the full name and an empty suffix. The returned suffix keeps
// its literal parentheses and the base is trimmed of trailing whitespace.
func SplitDuplicate(name string) (base, dupSuffix string) {
	loc := duplicateSuffixPattern.FindStringIndex(name)
	if loc == nil {
		return name, ""
	}
	return strings.TrimRight(name[:loc[0]], " \t"), name[loc[0]:]
}

// DuplicateIndex returns the numeric value of a duplicate suffix, or 0 for an
// empty suffix.
func DuplicateIndex(dupSuffix string) int {
	if dupSuffix == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.Trim(dupSuffix, "()"))
	if err != nil {
		return 0
	}
	return n
}

// IsMedia reports whether the filename carries one of the recognized raster
// image, HEIC/HEIF, or video container extensions.
func IsMedia(filename string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// IsSidecar reports whether the filename is a JSON metadata sidecar.
func IsSidecar(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}

// Canonical builds the preferred sidecar filename for a media file split into
// base name, duplicate suffix, and extension.
func Canonical(base, dupSuffix, ext string) string {
	return base + dupSuffix + ext + "." + CanonicalSuffix + ".json"
}
