package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "lajfi.db")),
	}
}

func TestStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			t.Cleanup(func() { _ = CloseIfSupported(store) })

			run := Run{
				ID:         NewRunID(),
				Seed:       42,
				ConfigYAML: "world:\n  size: 20\n",
				StartedAt:  time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
			}
			if err := store.SaveRun(ctx, run); err != nil {
				t.Fatalf("save run: %v", err)
			}

			loaded, ok, err := store.GetRun(ctx, run.ID)
			if err != nil {
				t.Fatalf("get run: %v", err)
			}
			if !ok {
				t.Fatalf("expected run %s", run.ID)
			}
			if loaded.Seed != run.Seed || loaded.ConfigYAML != run.ConfigYAML || !loaded.StartedAt.Equal(run.StartedAt) {
				t.Fatalf("unexpected run loaded: %+v", loaded)
			}

			if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
				t.Fatalf("missing run: ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestStoreExportsInOrder(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			t.Cleanup(func() { _ = CloseIfSupported(store) })

			created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			recs := []ExportRecord{
				{RunID: "r1", OrganismID: 3, Name: "BAKO", Generation: 1, Tick: 400, Artifact: "/tmp/a.stl", Status: StatusDone, CreatedAt: created},
				{RunID: "r1", OrganismID: 7, Name: "MIRU", Generation: 2, Tick: 800, Status: StatusFailed, Error: "timeout", CreatedAt: created.Add(time.Minute)},
				{RunID: "r2", OrganismID: 1, Name: "TEVA", Tick: 400, Status: StatusDone, CreatedAt: created},
			}
			for _, rec := range recs {
				if err := store.RecordExport(ctx, rec); err != nil {
					t.Fatalf("record export: %v", err)
				}
			}

			got, err := store.ListExports(ctx, "r1")
			if err != nil {
				t.Fatalf("list exports: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d exports for r1, want 2", len(got))
			}
			if got[0].Name != "BAKO" || got[1].Name != "MIRU" {
				t.Errorf("exports out of order: %+v", got)
			}
			if got[1].Status != StatusFailed || got[1].Error != "timeout" || got[1].OrganismID != 7 {
				t.Errorf("failed export not preserved: %+v", got[1])
			}
			if !got[1].CreatedAt.Equal(recs[1].CreatedAt) {
				t.Errorf("created_at = %v, want %v", got[1].CreatedAt, recs[1].CreatedAt)
			}

			none, err := store.ListExports(ctx, "unknown")
			if err != nil || len(none) != 0 {
				t.Errorf("unknown run: %v, %v", none, err)
			}
		})
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "lajfi.db"))
	if err := store.SaveRun(context.Background(), Run{ID: "x"}); err == nil {
		t.Fatal("expected error before init")
	}
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lajfi.db")

	first := NewSQLiteStore(path)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := first.SaveRun(ctx, Run{ID: "r1", Seed: 7, StartedAt: time.Now()}); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(path)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	run, ok, err := second.GetRun(ctx, "r1")
	if err != nil || !ok || run.Seed != 7 {
		t.Fatalf("run after reopen = %+v, %v, %v", run, ok, err)
	}
}

func TestTally(t *testing.T) {
	recs := []ExportRecord{
		{Status: StatusDone},
		{Status: StatusFailed},
		{Status: StatusDone},
		{Status: "queued"},
	}
	done, failed := Tally(recs)
	if done != 2 || failed != 1 {
		t.Errorf("Tally = %d done, %d failed; want 2, 1", done, failed)
	}
	if done, failed := Tally(nil); done != 0 || failed != 0 {
		t.Errorf("Tally(nil) = %d, %d", done, failed)
	}
}
