package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunCommandDryRun(t *testing.T) {
	configPath := writeTestConfig(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "IMG_0001.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	sidecar := filepath.Join(root, "IMG_0001.jpg.suppl.json")
	if err := os.WriteFile(sidecar, []byte(`{"title":"IMG_0001.jpg"}`), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	out, _, err := runCLI(t, configPath, "run", "--dry-run", "--workers", "1", root)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "dry run")
	requireContains(t, out, "Matched")

	if _, err := os.Stat(sidecar); err != nil {
		t.Error("dry run moved the sidecar")
	}
}

func TestRunCommandAppliesRenames(t *testing.T) {
	configPath := writeTestConfig(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "IMG_0001.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "IMG_0001.jpg.suppl.json"), []byte(`{"title":"IMG_0001.jpg"}`), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	if _, _, err := runCLI(t, configPath, "run", "--workers", "1", root); err != nil {
		t.Fatalf("run: %v", err)
	}

	canonical := filepath.Join(root, "IMG_0001.jpg.supplemental-metadata.json")
	if _, err := os.Stat(canonical); err != nil {
		t.Error("canonical sidecar missing after run")
	}
}

func TestRunCommandRejectsMissingRoot(t *testing.T) {
	configPath := writeTestConfig(t)

	_, _, err := runCLI(t, configPath, "run", filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected preflight failure for missing root")
	}
}

func TestReportListAfterRun(t *testing.T) {
	configPath := writeTestConfig(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "IMG_0001.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}

	if _, _, err := runCLI(t, configPath, "run", "--workers", "1", root); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err := runCLI(t, configPath, "report", "list")
	if err != nil {
		t.Fatalf("report list: %v", err)
	}
	requireContains(t, out, root)
}
