package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jinkieyz/lajfi/genetics"
	"github.com/Jinkieyz/lajfi/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	genome := genetics.Random(rand.New(rand.NewSource(1)))

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		RNGSeed:   42,
		WorldSize: 20,
		Tick:      1000,
		Organisms: []OrganismState{
			{
				ID:         4,
				Name:       "KOVI",
				Generation: 2,
				ParentA:    1,
				ParentB:    2,
				BirthTick:  640,
				X:          1.5,
				Y:          -2.25,
				Z:          1,
				Energy:     48.5,
				Age:        360,
				Alive:      true,
				Genome:     genome,
				Lifetime: &LifetimeStatsJSON{
					Children:    1,
					Meals:       6,
					EnergyEaten: 150,
					PeakEnergy:  92,
				},
			},
		},
		Plants: []systems.Plant{
			{ID: 3, X: 4, Y: 5, Z: 0.3, Energy: 25, Age: 12},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkGenerationRecord,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version || loaded.RNGSeed != snapshot.RNGSeed || loaded.Tick != snapshot.Tick {
		t.Errorf("header mismatch: got %+v", loaded)
	}
	if len(loaded.Organisms) != 1 || len(loaded.Plants) != 1 {
		t.Fatalf("counts mismatch: %d organisms, %d plants", len(loaded.Organisms), len(loaded.Plants))
	}
	if loaded.Organisms[0].Genome != genome {
		t.Error("genome changed through JSON")
	}
	if loaded.Organisms[0].Lifetime == nil || loaded.Organisms[0].Lifetime.Meals != 6 {
		t.Error("lifetime stats not restored")
	}
	if loaded.Plants[0] != snapshot.Plants[0] {
		t.Errorf("plant mismatch: got %+v", loaded.Plants[0])
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkGenerationRecord {
		t.Error("Bookmark not loaded")
	}
	if d := snapshot.Divergence(loaded); d != "" {
		t.Errorf("round-tripped snapshot diverges: %s", d)
	}
}

func TestSnapshotDivergence(t *testing.T) {
	base := func() *Snapshot {
		return &Snapshot{
			RNGSeed:   7,
			Tick:      300,
			Organisms: []OrganismState{{ID: 1, Energy: 40, Alive: true}, {ID: 2, Energy: 55, Alive: true}},
			Plants:    []systems.Plant{{ID: 9, X: 1, Energy: 25}},
		}
	}
	tests := []struct {
		name   string
		mutate func(*Snapshot)
		want   string
	}{
		{"identical", func(*Snapshot) {}, ""},
		{"bookmark ignored", func(s *Snapshot) { s.Bookmark = &Bookmark{Type: BookmarkFamine} }, ""},
		{"seed", func(s *Snapshot) { s.RNGSeed = 8 }, "seed 7 vs 8"},
		{"tick", func(s *Snapshot) { s.Tick = 301 }, "tick 300 vs 301"},
		{"population", func(s *Snapshot) { s.Organisms = s.Organisms[:1] }, "2 organisms vs 1"},
		{"energy", func(s *Snapshot) { s.Organisms[1].Energy = 54 }, "organism 2 differs"},
		{"plant", func(s *Snapshot) { s.Plants[0].Age = 1 }, "plant 9 differs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base()
			tt.mutate(other)
			if got := base().Divergence(other); got != tt.want {
				t.Errorf("Divergence = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkDieOff, Tick: 5000},
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000_die_off.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_3000.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
