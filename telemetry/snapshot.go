package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Jinkieyz/lajfi/genetics"
	"github.com/Jinkieyz/lajfi/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldSize float64 `json:"world_size"`

	Tick int64 `json:"tick"`

	Organisms []OrganismState `json:"organisms"`
	Plants    []systems.Plant `json:"plants"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// OrganismState holds one organism's complete state.
type OrganismState struct {
	ID         uint32 `json:"id"`
	Name       string `json:"name"`
	Generation int    `json:"generation"`
	ParentA    uint32 `json:"parent_a,omitempty"`
	ParentB    uint32 `json:"parent_b,omitempty"`
	BirthTick  int64  `json:"birth_tick"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	Energy       float64 `json:"energy"`
	Age          int64   `json:"age"`
	Alive        bool    `json:"alive"`
	MateCooldown int     `json:"mate_cooldown"`

	Genome genetics.Genome `json:"genome"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	Children    int     `json:"children"`
	Meals       int     `json:"meals"`
	EnergyEaten float64 `json:"energy_eaten"`
	Kills       int     `json:"kills"`
	PeakEnergy  float64 `json:"peak_energy"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		Children:    ls.Children,
		Meals:       ls.Meals,
		EnergyEaten: ls.EnergyEaten,
		Kills:       ls.Kills,
		PeakEnergy:  ls.PeakEnergy,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// Divergence describes the first difference in simulation state between s
// and o, or returns "" when both hold the same seed, tick, organisms and
// plants. Version and bookmark tags are not compared.
func (s *Snapshot) Divergence(o *Snapshot) string {
	switch {
	case s.RNGSeed != o.RNGSeed:
		return fmt.Sprintf("seed %d vs %d", s.RNGSeed, o.RNGSeed)
	case s.Tick != o.Tick:
		return fmt.Sprintf("tick %d vs %d", s.Tick, o.Tick)
	case len(s.Organisms) != len(o.Organisms):
		return fmt.Sprintf("%d organisms vs %d", len(s.Organisms), len(o.Organisms))
	case len(s.Plants) != len(o.Plants):
		return fmt.Sprintf("%d plants vs %d", len(s.Plants), len(o.Plants))
	}
	for i := range s.Organisms {
		if !reflect.DeepEqual(s.Organisms[i], o.Organisms[i]) {
			return fmt.Sprintf("organism %d differs", s.Organisms[i].ID)
		}
	}
	for i := range s.Plants {
		if s.Plants[i] != o.Plants[i] {
			return fmt.Sprintf("plant %d differs", s.Plants[i].ID)
		}
	}
	return ""
}
