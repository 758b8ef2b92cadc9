// Package testsupport provides fixture helpers for building fake Takeout
// export trees in tests.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"reunite/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ReportDir = filepath.Join(base, "reports")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WriteMedia creates a small fake media file at dir/name and returns its path.
func WriteMedia(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("media-bytes"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSidecar creates a JSON sidecar at dir/name with the given title and
// returns its path. Extra fields can be merged in via fields.
func WriteSidecar(t testing.TB, dir, name, title string, fields ...map[string]any) string {
	t.Helper()

	body := map[string]any{"title": title}
	for _, extra := range fields {
		for k, v := range extra {
			body[k] = v
		}
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal sidecar: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
