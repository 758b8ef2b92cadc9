package reconcile

import (
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"reunite/internal/match"
	"reunite/internal/names"
	"reunite/internal/sidecar"
	"reunite/internal/tuning"
)

// Session reconciles one directory. It owns its title cache and assignment
// set exclusively; nothing escapes the session except the returned results.
type Session struct {
	dir      string
	media    []MediaFile
	sidecars []string
	titles   sidecar.TitleCache
	gen      *Generator
	assigned map[string]struct{}
	present  map[string]struct{}
	logger   *slog.Logger
}

// NewSession prepares a session over the directory's partitioned listing.
// The title cache must already be loaded; the session never re-reads it.
func NewSession(dir string, mediaNames, sidecarNames []string, titles sidecar.TitleCache, params tuning.Parameters, logger *slog.Logger) *Session {
	media := make([]MediaFile, 0, len(mediaNames))
	for _, name := range mediaNames {
		media = append(media, NewMediaFile(dir, name))
	}
	sortMedia(media)

	present := make(map[string]struct{}, len(sidecarNames))
	for _, name := range sidecarNames {
		present[name] = struct{}{}
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		dir:      dir,
		media:    media,
		sidecars: sidecarNames,
		titles:   titles,
		gen:      NewGenerator(params),
		assigned: make(map[string]struct{}),
		present:  present,
		logger:   logger,
	}
}

// sortMedia orders non-duplicate files before duplicate-numbered ones,
// duplicates ascending by counter, ties broken by filename. Base files must
// claim their sidecar before a "(1)" sibling can steal it.
func sortMedia(media []MediaFile) {
	sort.SliceStable(media, func(i, j int) bool {
		di, dj := media[i].DupSuffix != "", media[j].DupSuffix != ""
		if di != dj {
			return !di
		}
		ni, nj := names.DuplicateIndex(media[i].DupSuffix), names.DuplicateIndex(media[j].DupSuffix)
		if ni != nj {
			return ni < nj
		}
		return media[i].Name < media[j].Name
	})
}

// Run resolves every media file in order and returns one Result per file.
// Resolutions are sequential on purpose: each depends on the assignments of
// the ones before it.
func (s *Session) Run() []Result {
	results := make([]Result, 0, len(s.media))
	for _, m := range s.media {
		results = append(results, s.resolveOne(m))
	}
	return results
}

func (s *Session) resolveOne(m MediaFile) Result {
	matched, ok := s.findSidecar(m)
	if !ok {
		s.logger.Warn("no sidecar match",
			slog.String("media", m.Path))
		return Result{Media: m, Kind: OutcomeNoMatch}
	}

	canonicalName := m.CanonicalSidecarName()
	sidecarPath := filepath.Join(s.dir, matched)
	canonicalPath := filepath.Join(s.dir, canonicalName)

	if matched != canonicalName {
		if _, exists := s.present[canonicalName]; exists {
			// Never overwrite: the matched sidecar stays unassigned and may
			// still be claimed by a later media file.
			s.logger.Warn("canonical sidecar name already taken, skipping rename",
				slog.String("media", m.Path),
				slog.String("sidecar", sidecarPath),
				slog.String("canonical", canonicalPath))
			return Result{Media: m, Kind: OutcomeConflict, SidecarPath: sidecarPath}
		}
	}

	s.assigned[matched] = struct{}{}
	s.logger.Debug("sidecar matched",
		slog.String("media", m.Path),
		slog.String("sidecar", sidecarPath),
		slog.Bool("needs_rename", matched != canonicalName))
	return Result{
		Media: m,
		Kind:  OutcomeMatched,
		Resolution: &Resolution{
			MediaPath:     m.Path,
			SidecarPath:   sidecarPath,
			CanonicalPath: canonicalPath,
			NeedsRename:   matched != canonicalName,
		},
	}
}

// findSidecar runs the four candidate tiers for one media file and returns
// the first accepted sidecar filename.
func (s *Session) findSidecar(m MediaFile) (string, bool) {
	expected := norm.NFC.String(m.ExpectedTitle())
	expectedLower := strings.ToLower(expected)

	// Tiers 1+2: exact suffix shapes then generic wildcards. An exact title
	// hit returns immediately; fuzzy candidates accumulate and are only
	// consulted after every named pattern has been probed.
	type candidate struct {
		name  string
		title string
	}
	var pool []candidate
	for _, pattern := range s.gen.NamedPatterns(m.Base, m.Ext, m.DupSuffix) {
		for _, name := range s.sidecars {
			if !matchName(pattern, name) {
				continue
			}
			if _, used := s.assigned[name]; used {
				continue
			}
			title := s.titles[name]
			if strings.ToLower(title) == expectedLower {
				return name, true
			}
			pool = append(pool, candidate{name: name, title: title})
		}
	}
	for _, c := range pool {
		if match.Accepts(c.title, expected, m.Ext) {
			return c.name, true
		}
	}

	// Tiers 3+4: truncation sweeps over the base name, then over the base
	// name with its extension. Exact and fuzzy checks run inline here; the
	// longest prefix that matches anything decides.
	for _, prefix := range []string{m.Base, m.Base + m.Ext} {
		for _, pattern := range s.gen.TruncationPatterns(prefix) {
			for _, name := range s.sidecars {
				if !matchName(pattern, name) {
					continue
				}
				if _, used := s.assigned[name]; used {
					continue
				}
				title := s.titles[name]
				if strings.ToLower(title) == expectedLower {
					return name, true
				}
				if match.Accepts(title, expected, m.Ext) {
					return name, true
				}
			}
		}
	}
	return "", false
}
