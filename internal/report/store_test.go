package report

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/photos/takeout", true)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run ID empty")
	}
	if !run.DryRun {
		t.Error("dry run flag lost")
	}

	outcomes := []Outcome{
		{MediaPath: "/photos/takeout/IMG_0001.jpg", SidecarPath: "/photos/takeout/IMG_0001.jpg.supplemental-metadata.json", Kind: "matched", Renamed: true},
		{MediaPath: "/photos/takeout/IMG_0002.jpg", Kind: "no_match"},
		{MediaPath: "/photos/takeout/IMG_0003.jpg", SidecarPath: "/photos/takeout/IMG_0003.jpg.suppl.json", Kind: "conflict"},
	}
	for _, o := range outcomes {
		if err := store.RecordOutcome(ctx, run.ID, o); err != nil {
			t.Fatalf("RecordOutcome: %v", err)
		}
	}

	totals := Totals{Directories: 1, MediaFiles: 3, Matched: 1, Unmatched: 1, Conflicts: 1, Renamed: 1}
	if err := store.FinishRun(ctx, run.ID, totals); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.FinishedAt == nil {
		t.Error("finished run has no finished_at")
	}
	if got.Totals != totals {
		t.Errorf("totals = %+v, want %+v", got.Totals, totals)
	}

	stored, err := store.RunOutcomes(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunOutcomes: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(stored))
	}
	if stored[0].MediaPath != outcomes[0].MediaPath || !stored[0].Renamed {
		t.Errorf("first outcome = %+v", stored[0])
	}
	if stored[1].SidecarPath != "" {
		t.Errorf("no_match outcome kept sidecar path %q", stored[1].SidecarPath)
	}
}

func TestRunOutcomesKindFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/photos", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	kinds := []string{"matched", "no_match", "conflict", "matched"}
	for i, kind := range kinds {
		o := Outcome{MediaPath: filepath.Join("/photos", string(rune('a'+i))+".jpg"), Kind: kind}
		if err := store.RecordOutcome(ctx, run.ID, o); err != nil {
			t.Fatalf("RecordOutcome: %v", err)
		}
	}

	matched, err := store.RunOutcomes(ctx, run.ID, "matched")
	if err != nil {
		t.Fatalf("RunOutcomes: %v", err)
	}
	if len(matched) != 2 {
		t.Errorf("matched = %d, want 2", len(matched))
	}

	problems, err := store.RunOutcomes(ctx, run.ID, "no_match", "conflict")
	if err != nil {
		t.Fatalf("RunOutcomes: %v", err)
	}
	if len(problems) != 2 {
		t.Errorf("problems = %d, want 2", len(problems))
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.BeginRun(ctx, "/photos", false)
		if err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != ids[2] {
		t.Errorf("newest run first: got %s, want %s", runs[0].ID, ids[2])
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetRun(context.Background(), "no-such-run"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}
