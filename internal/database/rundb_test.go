package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/tagcrawl/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *RunDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRun(outcome model.Outcome, written int) *model.RunResult {
	started := time.Date(2026, 10, 17, 9, 30, 0, 123456789, time.UTC)
	return &model.RunResult{
		StartedAt:    started,
		FinishedAt:   started.Add(42 * time.Second),
		Endpoint:     "https://danbooru.donmai.us/tags.json",
		Output:       "tags.csv",
		Outcome:      outcome,
		MinPostCount: 64,
		Categories:   []model.Category{model.CategoryGeneral, model.CategoryCharacter},
		PagesFetched: 3,
		LastPage:     3,
		Examined:     2500,
		Written:      written,
		ByCategory: map[model.Category]int{
			model.CategoryGeneral:   written - 1,
			model.CategoryCharacter: 1,
		},
		Checksum: "abc123",
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("reopen keeps runs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if err := db.SaveRun(context.Background(), sampleRun(model.OutcomeThreshold, 10)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("got %d runs, expected 1", len(runs))
		}
	})
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	want := sampleRun(model.OutcomeThreshold, 1200)
	if err := db.SaveRun(ctx, want); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if want.ID == 0 {
		t.Fatal("SaveRun should set the ID")
	}

	got, err := db.GetRun(ctx, want.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if !got.StartedAt.Equal(want.StartedAt) || !got.FinishedAt.Equal(want.FinishedAt) {
		t.Errorf("timestamps = %v..%v, expected %v..%v", got.StartedAt, got.FinishedAt, want.StartedAt, want.FinishedAt)
	}
	if got.Outcome != want.Outcome {
		t.Errorf("Outcome = %q, expected %q", got.Outcome, want.Outcome)
	}
	if got.Written != want.Written || got.Examined != want.Examined || got.LastPage != want.LastPage {
		t.Errorf("counts = %+v", got)
	}
	if got.MinPostCount != 64 {
		t.Errorf("MinPostCount = %d, expected 64", got.MinPostCount)
	}
	if len(got.Categories) != 2 || got.Categories[1] != model.CategoryCharacter {
		t.Errorf("Categories = %v", got.Categories)
	}
	if got.ByCategory[model.CategoryGeneral] != 1199 || got.ByCategory[model.CategoryCharacter] != 1 {
		t.Errorf("ByCategory = %v", got.ByCategory)
	}
	if got.Checksum != "abc123" || got.Error != "" {
		t.Errorf("Checksum = %q, Error = %q", got.Checksum, got.Error)
	}
}

func TestSaveFailedRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	run := model.NewRunResult("https://example.com/tags.json", "out.csv")
	run.Finish(model.OutcomeFailed, errors.New("page 1: unexpected status 500"))
	if err := db.SaveRun(ctx, run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	got, err := db.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got.Error != "page 1: unexpected status 500" {
		t.Errorf("Error = %q", got.Error)
	}
	if len(got.Categories) != 0 || len(got.ByCategory) != 0 {
		t.Errorf("expected empty categories, got %v and %v", got.Categories, got.ByCategory)
	}
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	if _, err := db.GetRun(context.Background(), 999); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRunsAndLatest(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	latest, err := db.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun on empty database: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected no latest run, got %+v", latest)
	}

	outcomes := []model.Outcome{model.OutcomeExhausted, model.OutcomeInterrupted, model.OutcomeThreshold}
	for i, o := range outcomes {
		if err := db.SaveRun(ctx, sampleRun(o, 10+i)); err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
	}

	all, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d runs, expected 3", len(all))
	}
	if all[0].Outcome != model.OutcomeThreshold || all[2].Outcome != model.OutcomeExhausted {
		t.Errorf("runs not newest first: %v, %v", all[0].Outcome, all[2].Outcome)
	}

	limited, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs, expected 2", len(limited))
	}

	latest, err = db.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest == nil || latest.ID != all[0].ID {
		t.Errorf("LatestRun = %+v, expected ID %d", latest, all[0].ID)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-10-17T09:30:00.5Z", time.Date(2026, 10, 17, 9, 30, 0, 500000000, time.UTC)},
		{"2026-10-17T09:30:00Z", time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)},
		{"2026-10-17 09:30:00", time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, expected %v", tt.input, got, tt.want)
		}
	}
}
