package reconcile

import (
	"path/filepath"

	"reunite/internal/names"
)

// MediaFile is the decomposed identity of one media file in a directory.
// Derived once from the filename and immutable afterward.
type MediaFile struct {
	// Name is the filename including extension.
	Name string
	// Path is the absolute or caller-relative path.
	Path string
	// Base is the name without extension and without any duplicate counter.
	Base string
	// DupSuffix is the literal "(N)" counter, or empty.
	DupSuffix string
	// Ext is the extension including the leading dot, original casing kept.
	Ext string
}

// NewMediaFile decomposes a media filename within dir.
func NewMediaFile(dir, name string) MediaFile {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	base, dup := names.SplitDuplicate(stem)
	return MediaFile{
		Name:      name,
		Path:      filepath.Join(dir, name),
		Base:      base,
		DupSuffix: dup,
		Ext:       ext,
	}
}

// ExpectedTitle is the title the export writes into a matching sidecar. The
// duplicate counter is excluded: the export strips it from titles.
func (m MediaFile) ExpectedTitle() string {
	return m.Base + m.Ext
}

// CanonicalSidecarName is the filename every matched sidecar is normalized
// toward.
func (m MediaFile) CanonicalSidecarName() string {
	return names.Canonical(m.Base, m.DupSuffix, m.Ext)
}

// OutcomeKind classifies the result of resolving one media file.
type OutcomeKind int

const (
	// OutcomeMatched means a sidecar was found and a Resolution emitted.
	OutcomeMatched OutcomeKind = iota
	// OutcomeNoMatch means no candidate satisfied exact or fuzzy criteria.
	OutcomeNoMatch
	// OutcomeConflict means the canonical target already exists and is not
	// the matched sidecar; no rename may happen.
	OutcomeConflict
)

// String names the outcome for logs and reports.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMatched:
		return "matched"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Resolution binds a media file to its chosen sidecar. Produced at most once
// per media file per session.
type Resolution struct {
	MediaPath     string
	SidecarPath   string
	CanonicalPath string
	NeedsRename   bool
}

// Result is the per-media outcome of a session.
type Result struct {
	Media      MediaFile
	Kind       OutcomeKind
	Resolution *Resolution // set only when Kind == OutcomeMatched
	// SidecarPath is set for OutcomeConflict: the match that could not be
	// renamed because its canonical target exists.
	SidecarPath string
}
