// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// OutputEnv overrides export.output_dir when set.
const OutputEnv = "LAJFI_OUTPUT"

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Population   PopulationConfig   `yaml:"population"`
	Energy       EnergyConfig       `yaml:"energy"`
	Feeding      FeedingConfig      `yaml:"feeding"`
	Combat       CombatConfig       `yaml:"combat"`
	Movement     MovementConfig     `yaml:"movement"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Plants       PlantsConfig       `yaml:"plants"`
	Export       ExportConfig       `yaml:"export"`
	Names        NamesConfig        `yaml:"names"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Ledger       LedgerConfig       `yaml:"ledger"`
}

// WorldConfig holds world dimensions and pacing.
type WorldConfig struct {
	Size        float64 `yaml:"size"`         // Edge length of the square world
	Margin      float64 `yaml:"margin"`       // Keep-out band along each edge
	ZMin        float64 `yaml:"z_min"`        // Lowest organism altitude
	ZMax        float64 `yaml:"z_max"`        // Highest organism altitude
	TickSeconds float64 `yaml:"tick_seconds"` // Wall-clock pacing in --realtime mode
}

// PopulationConfig holds population caps and respawn behavior.
type PopulationConfig struct {
	Initial          int `yaml:"initial"`
	MaxCreatures     int `yaml:"max_creatures"`
	MaxPlants        int `yaml:"max_plants"`
	RespawnThreshold int `yaml:"respawn_threshold"` // Respawn when living count drops below this (0 = never)
	RespawnCount     int `yaml:"respawn_count"`
	MaxAge           int `yaml:"max_age"` // Ticks; 0 disables old-age death
}

// EnergyConfig holds metabolic parameters.
type EnergyConfig struct {
	Start          float64 `yaml:"start"`
	BaseCost       float64 `yaml:"base_cost"`       // Upkeep per tick
	ComplexityCost float64 `yaml:"complexity_cost"` // Upkeep per tick per (levels * children)
	MoveCost       float64 `yaml:"move_cost"`       // Upkeep per unit distance moved
}

// FeedingConfig holds plant consumption parameters.
type FeedingConfig struct {
	EatRange       float64 `yaml:"eat_range"`
	SatiatedEnergy float64 `yaml:"satiated_energy"` // At or above this an organism stops eating (0 = never satiated)
}

// CombatConfig holds predation parameters.
type CombatConfig struct {
	Range      float64 `yaml:"range"`       // Attack reach; 0 disables combat
	AttackCost float64 `yaml:"attack_cost"` // Paid by the attacker, win or lose
	KillGain   float64 `yaml:"kill_gain"`   // Share of the victim's energy taken by the winner
}

// MovementConfig holds locomotion parameters.
type MovementConfig struct {
	StepScale float64 `yaml:"step_scale"` // World units per tick per unit of speed gene
}

// ReproductionConfig holds mating parameters.
type ReproductionConfig struct {
	MaturityAge int     `yaml:"maturity_age"`
	Threshold   float64 `yaml:"threshold"`
	Cost        float64 `yaml:"cost"`
	MatingRange float64 `yaml:"mating_range"`
	Cooldown    int     `yaml:"cooldown"`
	SpawnJitter float64 `yaml:"spawn_jitter"`
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate     float64 `yaml:"rate"`
	Strength float64 `yaml:"strength"`
}

// PlantsConfig holds plant energy, growth and regrowth parameters.
type PlantsConfig struct {
	Energy          float64 `yaml:"energy"`
	GrowthInterval  int     `yaml:"growth_interval"`
	GrowthAmount    float64 `yaml:"growth_amount"`
	MaxEnergyFactor float64 `yaml:"max_energy_factor"`
	RegrowDelay     int     `yaml:"regrow_delay"`
	Height          float64 `yaml:"height"`
	FertilityScale  float64 `yaml:"fertility_scale"` // Noise frequency of the fertility field
}

// ExportConfig holds export trigger and renderer parameters.
type ExportConfig struct {
	IntervalTicks   int     `yaml:"interval_ticks"`
	IntervalSeconds float64 `yaml:"interval_seconds"`
	Resolution      int     `yaml:"resolution"`
	OutputDir       string  `yaml:"output_dir"`
	Queue           int     `yaml:"queue"`
	TimeoutSeconds  float64 `yaml:"timeout_seconds"`
}

// NamesConfig holds name generator parameters.
type NamesConfig struct {
	MinLength  int `yaml:"min_length"`
	MaxLength  int `yaml:"max_length"`
	MaxRetries int `yaml:"max_retries"`
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// LedgerConfig selects the run ledger backend.
type LedgerConfig struct {
	Backend string `yaml:"backend"` // memory or sqlite
	Path    string `yaml:"path"`    // SQLite file; relative paths resolve under the output dir
}

// Load reads configuration from a YAML file, using embedded defaults for missing values.
// If path is empty, only defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML data on the embedded defaults. Keys missing from data
// keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	// Unmarshal into same struct - only overwrites fields present in data
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads the embedded defaults and panics on failure.
// Intended for tests and tools that never read a user file.
func MustLoad() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv(OutputEnv); dir != "" {
		c.Export.OutputDir = dir
	}
}

// Validate reports every invalid setting. A nil result means the config is usable.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.World.Size <= 2*c.World.Margin {
		bad("world.size %.2f must exceed twice world.margin %.2f", c.World.Size, c.World.Margin)
	}
	if c.World.ZMax < c.World.ZMin {
		bad("world.z_max %.2f below world.z_min %.2f", c.World.ZMax, c.World.ZMin)
	}
	if c.Population.MaxCreatures < 1 {
		bad("population.max_creatures must be at least 1, got %d", c.Population.MaxCreatures)
	}
	if c.Population.MaxPlants < 0 {
		bad("population.max_plants must not be negative, got %d", c.Population.MaxPlants)
	}
	if c.Population.Initial < 0 {
		bad("population.initial must not be negative, got %d", c.Population.Initial)
	}
	if c.Population.RespawnThreshold < 0 || c.Population.RespawnCount < 0 {
		bad("population respawn settings must not be negative")
	}
	if c.Population.MaxAge < 0 {
		bad("population.max_age must not be negative, got %d", c.Population.MaxAge)
	}
	if c.Energy.Start <= 0 {
		bad("energy.start must be positive, got %.2f", c.Energy.Start)
	}
	if c.Energy.BaseCost < 0 || c.Energy.ComplexityCost < 0 || c.Energy.MoveCost < 0 {
		bad("energy costs must not be negative")
	}
	if c.Feeding.EatRange < 0 {
		bad("feeding.eat_range must not be negative, got %.2f", c.Feeding.EatRange)
	}
	if c.Feeding.SatiatedEnergy < 0 {
		bad("feeding.satiated_energy must not be negative, got %.2f", c.Feeding.SatiatedEnergy)
	}
	if c.Combat.Range < 0 || c.Combat.AttackCost < 0 {
		bad("combat.range and combat.attack_cost must not be negative")
	}
	if c.Combat.KillGain < 0 || c.Combat.KillGain > 1 {
		bad("combat.kill_gain must be in [0,1], got %.3f", c.Combat.KillGain)
	}
	if c.Movement.StepScale < 0 {
		bad("movement.step_scale must not be negative, got %.2f", c.Movement.StepScale)
	}
	if c.Reproduction.Cost < 0 {
		bad("reproduction.cost must not be negative, got %.2f", c.Reproduction.Cost)
	}
	if c.Reproduction.Threshold < c.Reproduction.Cost {
		bad("reproduction.threshold %.2f below reproduction.cost %.2f", c.Reproduction.Threshold, c.Reproduction.Cost)
	}
	if c.Reproduction.MaturityAge < 0 || c.Reproduction.Cooldown < 0 {
		bad("reproduction ages must not be negative")
	}
	if c.Mutation.Rate < 0 || c.Mutation.Rate > 1 {
		bad("mutation.rate must be in [0,1], got %.3f", c.Mutation.Rate)
	}
	if c.Mutation.Strength <= 0 || c.Mutation.Strength > 1 {
		bad("mutation.strength must be in (0,1], got %.3f", c.Mutation.Strength)
	}
	if c.Plants.Energy < 0 || c.Plants.MaxEnergyFactor < 1 {
		bad("plants.energy must not be negative and plants.max_energy_factor must be at least 1")
	}
	if c.Plants.RegrowDelay < 0 || c.Plants.GrowthInterval < 0 {
		bad("plant timers must not be negative")
	}
	if c.Export.IntervalTicks <= 0 && c.Export.IntervalSeconds <= 0 {
		bad("one of export.interval_ticks or export.interval_seconds must be positive")
	}
	if c.Export.Resolution < 4 {
		bad("export.resolution must be at least 4, got %d", c.Export.Resolution)
	}
	if c.Export.OutputDir == "" {
		bad("export.output_dir is empty (set it or %s)", OutputEnv)
	}
	if c.Export.Queue < 1 {
		bad("export.queue must be at least 1, got %d", c.Export.Queue)
	}
	if c.Names.MinLength < 1 || c.Names.MaxLength < c.Names.MinLength {
		bad("names length range [%d,%d] is invalid", c.Names.MinLength, c.Names.MaxLength)
	}
	if c.Names.MaxRetries < 0 {
		bad("names.max_retries must not be negative, got %d", c.Names.MaxRetries)
	}
	switch c.Ledger.Backend {
	case "", "memory", "sqlite":
	default:
		bad("ledger.backend %q is not one of memory, sqlite", c.Ledger.Backend)
	}

	return errors.Join(errs...)
}

// EnsureOutputDir creates the export directory and checks that it is a writable directory.
func (c *Config) EnsureOutputDir() error {
	dir := c.Export.OutputDir
	if dir == "" {
		return fmt.Errorf("output directory not configured (set export.output_dir or %s)", OutputEnv)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("checking output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", dir)
	}
	tmp, err := os.CreateTemp(dir, ".lajfi-write-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return nil
}

// LedgerPath returns the SQLite ledger file, resolving relative paths under
// the export output directory.
func (c *Config) LedgerPath() string {
	if c.Ledger.Path == "" || filepath.IsAbs(c.Ledger.Path) {
		return c.Ledger.Path
	}
	return filepath.Join(c.Export.OutputDir, c.Ledger.Path)
}

// WriteYAML writes the current config to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// YAML returns the config as YAML text.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
