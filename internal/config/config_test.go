package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists should be false for a missing file")
	}
	if cfg.Tuning.MinPrefixFactor != defaultMinPrefixFactor {
		t.Errorf("MinPrefixFactor = %v", cfg.Tuning.MinPrefixFactor)
	}
	if cfg.Embed.ExiftoolBinary != "exiftool" {
		t.Errorf("ExiftoolBinary = %q", cfg.Embed.ExiftoolBinary)
	}
	if !filepath.IsAbs(cfg.Paths.LogDir) {
		t.Errorf("LogDir not expanded: %q", cfg.Paths.LogDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
log_dir = "` + filepath.Join(dir, "logs") + `"

[tuning]
min_prefix_factor = 0.75
truncation_step_divisor = 10

[embed]
enabled = true
exiftool_binary = "  /usr/local/bin/exiftool  "

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Tuning.MinPrefixFactor != 0.75 || cfg.Tuning.TruncationStepDivisor != 10 {
		t.Errorf("tuning = %+v", cfg.Tuning)
	}
	if cfg.Embed.ExiftoolBinary != "/usr/local/bin/exiftool" {
		t.Errorf("ExiftoolBinary = %q", cfg.Embed.ExiftoolBinary)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"prefix factor above one", "[tuning]\nmin_prefix_factor = 1.5\n", "min_prefix_factor"},
		{"negative workers", "[workflow]\nworkers = -2\n", "workers"},
		{"unknown format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"unknown level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Error("sample file not found after CreateSample")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config invalid: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.ReportDir = filepath.Join(dir, "reports")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.LogDir, cfg.Paths.ReportDir} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Errorf("directory %q missing", d)
		}
	}
}
