// Package world runs the simulation: organisms in an ECS world, plants in a
// flora system, and a fixed seven-phase tick.
package world

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/config"
	"github.com/Jinkieyz/lajfi/genetics"
	"github.com/Jinkieyz/lajfi/names"
	"github.com/Jinkieyz/lajfi/superformula"
	"github.com/Jinkieyz/lajfi/systems"
	"github.com/Jinkieyz/lajfi/telemetry"
)

// bookmarkHistory is the number of stats windows kept for bookmark detection.
const bookmarkHistory = 10

// ExportSink receives champion descriptors. Submit must not block; it
// returns false when the descriptor was not accepted.
type ExportSink interface {
	Submit(desc superformula.ShapeDescriptor) bool
}

// Window is handed to Options.OnWindow each time a stats window closes.
type Window struct {
	Stats     telemetry.WindowStats
	Perf      telemetry.PerfStats
	Bookmarks []telemetry.Bookmark
	Census    []telemetry.CensusRow
}

// Options configures a World beyond its config.
type Options struct {
	Seed     int64
	Sink     ExportSink       // optional
	Clock    func() time.Time // defaults to time.Now
	Observer PhaseObserver    // optional
	Logger   *slog.Logger     // defaults to slog.Default()
	OnWindow func(Window)     // optional
}

// Organism is a copy of one organism's state.
type Organism struct {
	components.Identity
	Position components.Position
	Vitals   components.Vitals
	Genome   genetics.Genome
}

// World owns all simulation state.
type World struct {
	cfg  *config.Config
	log  *slog.Logger
	rng  *rand.Rand
	seed int64
	tick int64

	entities *ecs.World

	// Organism components
	mapper *ecs.Map4[
		components.Position,
		components.Vitals,
		components.Identity,
		components.Genes,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Vitals,
		components.Identity,
		components.Genes,
	]

	index  map[uint32]ecs.Entity // id -> entity
	names  names.Set
	nextID uint32

	bounds   systems.Bounds
	flora    *systems.FloraSystem
	upkeep   systems.Upkeep
	appetite systems.Appetite
	combat   systems.Combat
	mating   systems.MatingRules
	mutation genetics.Params
	namer    names.Generator

	sink       ExportSink
	clock      func() time.Time
	lastExport time.Time
	shape      func(genetics.Genome, int) superformula.ShapeDescriptor
	observer   PhaseObserver
	onWindow   func(Window)

	collector *telemetry.Collector
	lifetime  *telemetry.LifetimeTracker
	perf      *telemetry.PhaseTimer
	bookmarks *telemetry.BookmarkDetector
}

// New validates cfg and creates a world at tick 0 with the initial
// organisms and a full complement of plants.
func New(cfg *config.Config, opts Options) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	world := ecs.NewWorld()
	bounds := systems.NewBounds(cfg.World)

	var fertility *systems.Fertility
	if cfg.Plants.FertilityScale > 0 {
		fertility = systems.NewFertility(opts.Seed, cfg.Plants.FertilityScale)
	}

	w := &World{
		cfg:  cfg,
		log:  opts.Logger,
		rng:  rand.New(rand.NewSource(opts.Seed)),
		seed: opts.Seed,

		entities: world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Vitals,
			components.Identity,
			components.Genes,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Vitals,
			components.Identity,
			components.Genes,
		](world),
		index:  make(map[uint32]ecs.Entity),
		names:  names.Set{},
		nextID: 1,

		bounds:   bounds,
		flora:    systems.NewFloraSystem(bounds, cfg.Plants, cfg.Population.MaxPlants, fertility),
		upkeep:   systems.NewUpkeep(cfg.Energy),
		appetite: systems.NewAppetite(cfg.Feeding),
		combat:   systems.NewCombat(cfg.Combat),
		mating:   systems.NewMatingRules(cfg.Reproduction),
		mutation: genetics.Params{Rate: cfg.Mutation.Rate, Strength: cfg.Mutation.Strength},
		namer: names.Generator{
			MinLen:     cfg.Names.MinLength,
			MaxLen:     cfg.Names.MaxLength,
			MaxRetries: cfg.Names.MaxRetries,
		},

		sink:     opts.Sink,
		clock:    opts.Clock,
		shape:    superformula.SampleShape,
		observer: opts.Observer,
		onWindow: opts.OnWindow,

		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		lifetime:  telemetry.NewLifetimeTracker(),
		perf:      telemetry.NewPhaseTimer(cfg.Telemetry.PerfWindow, PhaseNames()),
		bookmarks: telemetry.NewBookmarkDetector(bookmarkHistory),
	}
	w.lastExport = w.clock()

	w.genesis()
	return w, nil
}

// genesis spawns the founders and seeds the plants.
func (w *World) genesis() {
	n := min(w.cfg.Population.Initial, w.cfg.Population.MaxCreatures)
	for i := 0; i < n; i++ {
		w.spawnFounder()
	}
	plants := w.flora.Seed(w.rng)

	w.log.Info("genesis",
		"seed", w.seed,
		"organisms", len(w.index),
		"plants", plants,
	)
}

// spawnFounder creates a generation-0 organism with a random genome at a
// random position.
func (w *World) spawnFounder() ecs.Entity {
	pos := w.bounds.RandomPosition(w.rng)
	g := genetics.Random(w.rng)
	e := w.spawn(pos, g, 0, 0, 0)
	ident := w.identity(e)
	w.emit(telemetry.NewSpawnEvent(w.tick, ident.ID, ident.Name))
	return e
}

// spawn adds an organism with a fresh id and unique name.
func (w *World) spawn(pos components.Position, g genetics.Genome, generation int, parentA, parentB uint32) ecs.Entity {
	id := w.nextID
	w.nextID++

	name := w.namer.Generate(w.rng, w.names.Has)
	w.names.Add(name)

	vit := components.Vitals{Energy: w.cfg.Energy.Start, Alive: true}
	ident := components.Identity{
		ID:         id,
		Name:       name,
		Generation: generation,
		ParentA:    parentA,
		ParentB:    parentB,
		BirthTick:  w.tick,
	}
	genes := components.Genes{Genome: g}

	e := w.mapper.NewEntity(&pos, &vit, &ident, &genes)
	w.index[id] = e
	w.lifetime.Register(id, w.tick, generation, vit.Energy)
	return e
}

// remove deletes an organism and releases its name.
func (w *World) remove(e ecs.Entity, ident components.Identity) {
	w.names.Remove(ident.Name)
	delete(w.index, ident.ID)
	w.lifetime.Remove(ident.ID)
	w.entities.RemoveEntity(e)
}

func (w *World) identity(e ecs.Entity) components.Identity {
	_, _, ident, _ := w.mapper.Get(e)
	return *ident
}

// emit records an event and logs it at its level.
func (w *World) emit(e telemetry.Event, extra ...slog.Attr) {
	w.collector.Record(e)
	attrs := append(e.LogValue().Group(), extra...)
	w.log.LogAttrs(context.Background(), e.Level(), e.Type.String(), attrs...)
}

// ref points at one organism's components. Pointers are valid until the
// next structural change to the ECS world.
type ref struct {
	entity ecs.Entity
	pos    *components.Position
	vit    *components.Vitals
	ident  *components.Identity
	genes  *components.Genes
}

// organisms returns every organism, living or not, in ascending id order.
func (w *World) organisms() []ref {
	refs := make([]ref, 0, len(w.index))
	query := w.filter.Query()
	for query.Next() {
		pos, vit, ident, genes := query.Get()
		refs = append(refs, ref{
			entity: query.Entity(),
			pos:    pos,
			vit:    vit,
			ident:  ident,
			genes:  genes,
		})
	}
	slices.SortFunc(refs, func(a, b ref) int { return cmp.Compare(a.ident.ID, b.ident.ID) })
	return refs
}

func (r ref) copy() Organism {
	return Organism{
		Identity: *r.ident,
		Position: *r.pos,
		Vitals:   *r.vit,
		Genome:   r.genes.Genome,
	}
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int64 { return w.tick }

// Seed returns the seed the world was created with.
func (w *World) Seed() int64 { return w.seed }

// Count returns the number of organisms.
func (w *World) Count() int { return len(w.index) }

// Organisms returns copies of all organisms sorted by id.
func (w *World) Organisms() []Organism {
	refs := w.organisms()
	out := make([]Organism, len(refs))
	for i, r := range refs {
		out[i] = r.copy()
	}
	return out
}

// Organism returns a copy of the organism with the given id.
func (w *World) Organism(id uint32) (Organism, bool) {
	e, ok := w.index[id]
	if !ok {
		return Organism{}, false
	}
	pos, vit, ident, genes := w.mapper.Get(e)
	return ref{entity: e, pos: pos, vit: vit, ident: ident, genes: genes}.copy(), true
}

// Plants returns copies of all plants sorted by id.
func (w *World) Plants() []systems.Plant {
	return w.flora.Snapshot()
}

// PendingPlants returns the number of plants waiting to regrow.
func (w *World) PendingPlants() int {
	return w.flora.Pending()
}

// Champion returns the living organism maximising generation*10 + energy.
// Ties go to the lower id.
func (w *World) Champion() (Organism, bool) {
	var best ref
	found := false
	bestScore := 0.0
	for _, r := range w.organisms() {
		if !r.vit.Alive {
			continue
		}
		score := float64(r.ident.Generation)*10 + r.vit.Energy
		if !found || score > bestScore {
			best, bestScore, found = r, score, true
		}
	}
	if !found {
		return Organism{}, false
	}
	return best.copy(), true
}
