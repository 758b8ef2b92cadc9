package sidecar

import (
	"log/slog"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// TitleCache maps sidecar filenames to their declared titles. It is built
// once per directory session and never re-read while the session runs.
type TitleCache map[string]string

// LoadTitles reads the title of every sidecar in dir. Unreadable sidecars are
// logged and cached with an empty title; nothing here is fatal. Titles are
// folded to NFC so later comparisons see a consistent form regardless of how
// the exporting platform composed them.
func LoadTitles(dir string, sidecars []string, logger *slog.Logger) TitleCache {
	cache := make(TitleCache, len(sidecars))
	for _, name := range sidecars {
		path := filepath.Join(dir, name)
		meta, err := Read(path)
		if err != nil {
			if logger != nil {
				logger.Warn("unreadable sidecar, caching empty title",
					slog.String("sidecar", path),
					slog.Any("error", err))
			}
			cache[name] = ""
			continue
		}
		cache[name] = norm.NFC.String(meta.Title)
	}
	return cache
}
