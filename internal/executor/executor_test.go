package executor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reunite/internal/reconcile"
	"reunite/internal/services"
	"reunite/internal/sidecar"
)

type fakeTool struct {
	fileType  string
	embedErr  error
	verifyErr error

	embedded []string
	verified []string
}

func (f *fakeTool) FileType(_ context.Context, _ string) (string, error) {
	return f.fileType, nil
}

func (f *fakeTool) Embed(_ context.Context, mediaPath string, _ *sidecar.Metadata) error {
	if f.embedErr != nil {
		return f.embedErr
	}
	f.embedded = append(f.embedded, mediaPath)
	return nil
}

func (f *fakeTool) Verify(_ context.Context, mediaPath string, _ *sidecar.Metadata) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verified = append(f.verified, mediaPath)
	return nil
}

func writeFixture(t *testing.T, dir string) *reconcile.Resolution {
	t.Helper()
	mediaPath := filepath.Join(dir, "IMG_0001.jpg")
	sidecarPath := filepath.Join(dir, "IMG_0001.jpg.suppl.json")
	canonicalPath := filepath.Join(dir, "IMG_0001.jpg.supplemental-metadata.json")
	if err := os.WriteFile(mediaPath, []byte("jpegbytes"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	if err := os.WriteFile(sidecarPath, []byte(`{"title":"IMG_0001.jpg"}`), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	return &reconcile.Resolution{
		MediaPath:     mediaPath,
		SidecarPath:   sidecarPath,
		CanonicalPath: canonicalPath,
		NeedsRename:   true,
	}
}

func TestApplyRenamesAndEmbeds(t *testing.T) {
	dir := t.TempDir()
	res := writeFixture(t, dir)
	tool := &fakeTool{fileType: "JPEG"}

	applied := New(Options{Embed: true}, tool, nil).Apply(context.Background(), res)
	if applied.Err != nil {
		t.Fatalf("Apply: %v", applied.Err)
	}
	if !applied.Renamed || !applied.Embedded || !applied.Verified {
		t.Errorf("applied = %+v, want renamed+embedded+verified", applied)
	}
	if _, err := os.Stat(res.CanonicalPath); err != nil {
		t.Error("canonical sidecar missing after rename")
	}
	if _, err := os.Stat(res.SidecarPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("old sidecar still present after rename")
	}
	if len(tool.embedded) != 1 {
		t.Errorf("embedded calls = %d, want 1", len(tool.embedded))
	}
}

func TestApplyDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	res := writeFixture(t, dir)

	// Dry-run runs without an exiftool client, same as the CLI wiring.
	applied := New(Options{DryRun: true, Embed: true}, nil, nil).Apply(context.Background(), res)
	if applied.Err != nil {
		t.Fatalf("Apply: %v", applied.Err)
	}
	if !applied.Renamed {
		t.Error("dry-run rename should still be recorded")
	}
	if applied.Embedded || applied.Verified {
		t.Error("dry-run must not record an embed")
	}
	if _, err := os.Stat(res.SidecarPath); err != nil {
		t.Error("dry run moved the sidecar")
	}
	if _, err := os.Stat(res.CanonicalPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run created the canonical path")
	}
}

func TestApplyDryRunReportsEmbedWithoutTool(t *testing.T) {
	dir := t.TempDir()
	res := writeFixture(t, dir)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	applied := New(Options{DryRun: true, Embed: true, Backup: true}, nil, logger).Apply(context.Background(), res)
	if applied.Err != nil {
		t.Fatalf("Apply: %v", applied.Err)
	}
	out := buf.String()
	if !strings.Contains(out, "would rename sidecar") {
		t.Errorf("log missing rename report:\n%s", out)
	}
	if !strings.Contains(out, "would embed metadata") {
		t.Errorf("log missing embed report:\n%s", out)
	}
}

func TestApplyNoRenameNeeded(t *testing.T) {
	dir := t.TempDir()
	canonical := filepath.Join(dir, "IMG_0001.jpg.supplemental-metadata.json")
	media := filepath.Join(dir, "IMG_0001.jpg")
	if err := os.WriteFile(media, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(canonical, []byte(`{"title":"IMG_0001.jpg"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res := &reconcile.Resolution{
		MediaPath:     media,
		SidecarPath:   canonical,
		CanonicalPath: canonical,
		NeedsRename:   false,
	}

	applied := New(Options{Embed: true}, &fakeTool{fileType: "JPEG"}, nil).Apply(context.Background(), res)
	if applied.Err != nil {
		t.Fatalf("Apply: %v", applied.Err)
	}
	if applied.Renamed {
		t.Error("no rename expected")
	}
	if !applied.Embedded || !applied.Verified {
		t.Error("embed should still run without a rename")
	}
}

func TestApplyRenameFailureSkipsEmbed(t *testing.T) {
	dir := t.TempDir()
	tool := &fakeTool{fileType: "JPEG"}
	res := &reconcile.Resolution{
		MediaPath:     filepath.Join(dir, "IMG_0001.jpg"),
		SidecarPath:   filepath.Join(dir, "missing.json"),
		CanonicalPath: filepath.Join(dir, "IMG_0001.jpg.supplemental-metadata.json"),
		NeedsRename:   true,
	}

	applied := New(Options{Embed: true}, tool, nil).Apply(context.Background(), res)
	if applied.Err == nil {
		t.Fatal("expected rename failure")
	}
	if !errors.Is(applied.Err, services.ErrExternalTool) {
		t.Errorf("Err = %v, want external tool marker", applied.Err)
	}
	if len(tool.embedded) != 0 {
		t.Error("embed ran after a failed rename")
	}
}

func TestApplyVerificationMismatchIsDistinct(t *testing.T) {
	dir := t.TempDir()
	res := writeFixture(t, dir)
	tool := &fakeTool{
		fileType:  "JPEG",
		verifyErr: services.Wrap(services.ErrVerification, "exiftool", "verify", "title mismatch", nil),
	}

	applied := New(Options{Embed: true}, tool, nil).Apply(context.Background(), res)
	if !applied.Embedded {
		t.Error("embed succeeded and must be recorded")
	}
	if applied.Verified {
		t.Error("verification failed and must not be recorded as verified")
	}
	if !errors.Is(applied.Err, services.ErrVerification) {
		t.Errorf("Err = %v, want verification marker", applied.Err)
	}
}

func TestApplyFixesMisnamedHEIC(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "IMG_0002.heic")
	canonical := filepath.Join(dir, "IMG_0002.heic.supplemental-metadata.json")
	if err := os.WriteFile(media, []byte("actually jpeg"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(canonical, []byte(`{"title":"IMG_0002.heic"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res := &reconcile.Resolution{
		MediaPath:     media,
		SidecarPath:   canonical,
		CanonicalPath: canonical,
		NeedsRename:   false,
	}

	tool := &fakeTool{fileType: "JPEG"}
	applied := New(Options{Embed: true}, tool, nil).Apply(context.Background(), res)
	if applied.Err != nil {
		t.Fatalf("Apply: %v", applied.Err)
	}
	want := filepath.Join(dir, "IMG_0002.jpg")
	if applied.MediaPath != want {
		t.Errorf("MediaPath = %q, want %q", applied.MediaPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Error("renamed media missing")
	}
}

func TestApplyBackup(t *testing.T) {
	dir := t.TempDir()
	res := writeFixture(t, dir)
	tool := &fakeTool{fileType: "JPEG"}

	applied := New(Options{Embed: true, Backup: true}, tool, nil).Apply(context.Background(), res)
	if applied.Err != nil {
		t.Fatalf("Apply: %v", applied.Err)
	}
	if _, err := os.Stat(res.MediaPath + "_original"); err != nil {
		t.Error("backup copy missing")
	}
}
