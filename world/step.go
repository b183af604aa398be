package world

import (
	"log/slog"

	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/genetics"
	"github.com/Jinkieyz/lajfi/systems"
	"github.com/Jinkieyz/lajfi/telemetry"
)

// Step advances the world by one tick.
func (w *World) Step() {
	w.tick++
	w.perf.BeginTick()

	w.runPhase(PhaseMovement, w.updateMovement)
	w.runPhase(PhaseFeeding, w.updateFeeding)
	w.runPhase(PhaseMetabolism, w.updateMetabolism)
	w.runPhase(PhaseReproduction, w.updateReproduction)
	w.runPhase(PhaseCleanup, w.cleanupDead)
	w.runPhase(PhaseReplenish, w.replenishPlants)
	w.runPhase(PhaseExport, w.exportChampion)

	w.perf.EndTick()
	w.flushTelemetry()
}

func (w *World) runPhase(p Phase, fn func()) {
	if w.observer != nil {
		w.observer(w.tick, p)
	}
	w.perf.Enter(int(p))
	fn()
}

// updateMovement moves every living organism. Hungry organisms head for
// the nearest plant. Satiated ones head for the nearest other organism that
// could mate, or wander when they cannot mate themselves.
func (w *World) updateMovement() {
	stepScale := w.cfg.Movement.StepScale
	refs := w.organisms()
	for _, r := range refs {
		if !r.vit.Alive {
			continue
		}
		target, ok := w.moveTarget(r, refs)
		systems.Move(r.pos, r.vit, r.genes.Genome.Speed, stepScale, target, ok, w.bounds, w.rng)
	}
}

func (w *World) moveTarget(r ref, refs []ref) (components.Position, bool) {
	if w.appetite.Hungry(r.vit) {
		i := w.flora.Nearest(*r.pos)
		if i < 0 {
			return components.Position{}, false
		}
		return w.flora.Plants[i].Position(), true
	}
	if !w.mating.CanMate(r.vit) {
		return components.Position{}, false
	}
	mate, ok := nearestOther(r, refs, func(o ref) bool { return w.mating.CanMate(o.vit) })
	if !ok {
		return components.Position{}, false
	}
	return *mate.pos, true
}

// updateFeeding lets hungry organisms eat in ascending id order. One that
// finds no plant within reach may attack the nearest organism instead, when
// that organism is in combat range and closer than any plant.
func (w *World) updateFeeding() {
	refs := w.organisms()
	for _, r := range refs {
		if !w.appetite.Hungry(r.vit) {
			continue
		}
		if plant, ok := w.appetite.Feed(*r.pos, r.vit, w.flora); ok {
			w.lifetime.RecordMeal(r.ident.ID, plant.Energy)
			w.lifetime.UpdateEnergy(r.ident.ID, r.vit.Energy)
			w.emit(telemetry.NewMealEvent(w.tick, r.ident.ID, plant.ID, plant.Energy))
			continue
		}
		if w.combat.Enabled() {
			w.hunt(r, refs)
		}
	}
}

// hunt resolves a possible attack by r. Rolling for aggression is the first
// draw, so an organism with no prey in range consumes nothing from the rng.
func (w *World) hunt(r ref, refs []ref) {
	prey, ok := nearestOther(r, refs, func(o ref) bool { return o.vit.Alive })
	if !ok {
		return
	}
	distSq := r.pos.DistanceSqTo(*prey.pos)
	if !w.combat.InRange(distSq) {
		return
	}
	if i := w.flora.Nearest(*r.pos); i >= 0 && r.pos.DistanceSqTo(w.flora.Plants[i].Position()) < distSq {
		return
	}
	if !systems.Provoked(r.genes.Genome.Aggression, w.rng) {
		return
	}

	gained, won := w.combat.Attack(r.vit, r.genes.Genome, prey.vit, prey.genes.Genome, w.rng)
	if !won {
		w.emit(telemetry.NewFightEvent(w.tick, r.ident.ID, prey.ident.ID))
		return
	}
	w.lifetime.RecordKill(r.ident.ID, gained)
	w.lifetime.UpdateEnergy(r.ident.ID, r.vit.Energy)
	w.emit(telemetry.NewKillEvent(w.tick, r.ident.ID, prey.ident.ID, gained))
}

// nearestOther returns the organism closest to r among those accepted by
// keep, excluding r itself. Ties go to the lower id.
func nearestOther(r ref, refs []ref, keep func(ref) bool) (ref, bool) {
	var best ref
	found := false
	bestDist := 0.0
	for _, o := range refs {
		if o.ident.ID == r.ident.ID || !keep(o) {
			continue
		}
		d := r.pos.DistanceSqTo(*o.pos)
		if !found || d < bestDist {
			best, bestDist, found = o, d, true
		}
	}
	return best, found
}

// updateMetabolism charges upkeep and ages every living organism.
func (w *World) updateMetabolism() {
	maxAge := w.cfg.Population.MaxAge
	for _, r := range w.organisms() {
		systems.Metabolize(r.vit, r.genes.Genome, w.upkeep, maxAge)
	}
}

// updateReproduction pairs eligible organisms and spawns their offspring
// once every pair has been evaluated.
func (w *World) updateReproduction() {
	refs := w.organisms()
	byID := make(map[uint32]ref, len(refs))
	living := 0
	var cands []systems.Candidate
	for _, r := range refs {
		byID[r.ident.ID] = r
		if !r.vit.Alive {
			continue
		}
		living++
		if w.mating.CanMate(r.vit) {
			cands = append(cands, systems.Candidate{ID: r.ident.ID, Pos: *r.pos, Vit: r.vit})
		}
	}
	if len(cands) < 2 {
		return
	}

	type birthInfo struct {
		pos        components.Position
		genome     genetics.Genome
		generation int
		parentA    uint32
		parentB    uint32
	}
	var births []birthInfo

	capacity := max(w.cfg.Population.MaxCreatures-living, 0)
	jitter := w.cfg.Reproduction.SpawnJitter
	systems.PairUp(cands, w.mating, capacity, func(a, b systems.Candidate) {
		pa, pb := byID[a.ID], byID[b.ID]
		births = append(births, birthInfo{
			genome:     genetics.Offspring(pa.genes.Genome, pb.genes.Genome, w.mutation, w.rng),
			pos:        systems.ChildPosition(a.Pos, b.Pos, jitter, w.bounds, w.rng),
			generation: max(pa.ident.Generation, pb.ident.Generation) + 1,
			parentA:    a.ID,
			parentB:    b.ID,
		})
		w.emit(telemetry.NewMatingEvent(w.tick, a.ID, b.ID))
	})

	// Spawn children outside the pairing loop
	for _, b := range births {
		e := w.spawn(b.pos, b.genome, b.generation, b.parentA, b.parentB)
		ident := w.identity(e)
		w.lifetime.RecordChild(b.parentA)
		w.lifetime.RecordChild(b.parentB)
		w.emit(telemetry.NewBirthEvent(w.tick, ident.ID, ident.Name, b.parentB),
			slog.Any("parent_a", b.parentA),
			slog.Int("generation", b.generation),
		)
	}
}

// cleanupDead removes dead organisms and respawns founders when the
// population has collapsed.
func (w *World) cleanupDead() {
	type deadInfo struct {
		ref   ref
		ident components.Identity
	}
	var toRemove []deadInfo
	for _, r := range w.organisms() {
		if !r.vit.Alive {
			toRemove = append(toRemove, deadInfo{ref: r, ident: *r.ident})
		}
	}

	for _, dead := range toRemove {
		attrs := []slog.Attr{slog.Int64("age", dead.ref.vit.Age)}
		if stats := w.lifetime.Get(dead.ident.ID); stats != nil {
			attrs = append(attrs,
				slog.Int("children", stats.Children),
				slog.Int("meals", stats.Meals),
				slog.Float64("peak_energy", stats.PeakEnergy),
			)
		}
		w.emit(telemetry.NewDeathEvent(w.tick, dead.ident.ID, dead.ident.Name, dead.ref.vit.Energy), attrs...)
	}
	// Read everything above before the first removal invalidates the refs
	for _, dead := range toRemove {
		w.remove(dead.ref.entity, dead.ident)
	}

	pop := w.cfg.Population
	if pop.RespawnThreshold <= 0 || len(w.index) >= pop.RespawnThreshold {
		return
	}
	for i := 0; i < pop.RespawnCount && len(w.index) < pop.MaxCreatures; i++ {
		w.spawnFounder()
	}
}

// replenishPlants grows plants and respawns due regrowths.
func (w *World) replenishPlants() {
	w.flora.Replenish(w.rng)
}
