package world

import "github.com/Jinkieyz/lajfi/telemetry"

// flushTelemetry closes the stats window when it is due.
func (w *World) flushTelemetry() {
	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	stats := w.collector.Flush(w.tick, w.samplePopulation())
	bookmarks := w.bookmarks.Check(stats)

	if w.onWindow != nil {
		w.onWindow(Window{
			Stats:     stats,
			Perf:      w.perf.Stats(),
			Bookmarks: bookmarks,
			Census:    w.census(),
		})
	}
}

// census lists every organism with its traits and history so far.
func (w *World) census() []telemetry.CensusRow {
	refs := w.organisms()
	rows := make([]telemetry.CensusRow, len(refs))
	for i, r := range refs {
		rows[i] = telemetry.NewCensusRow(w.tick, r.ident.ID, r.ident.Name, r.ident.Generation,
			r.vit.Age, r.vit.Energy, r.genes.Genome, w.lifetime.Get(r.ident.ID))
	}
	return rows
}

// samplePopulation gathers the distributions the window stats are built from.
func (w *World) samplePopulation() telemetry.Population {
	refs := w.organisms()
	pop := telemetry.Population{
		Organisms:     len(refs),
		Plants:        w.flora.Count(),
		PendingPlants: w.PendingPlants(),
		PlantEnergy:   w.flora.TotalEnergy(),
		Energies:      make([]float64, 0, len(refs)),
		Generations:   make([]float64, 0, len(refs)),
	}
	for _, r := range refs {
		pop.Energies = append(pop.Energies, r.vit.Energy)
		pop.Generations = append(pop.Generations, float64(r.ident.Generation))
		pop.Genomes = append(pop.Genomes, r.genes.Genome)

		// Update lifetime peak energy
		w.lifetime.UpdateEnergy(r.ident.ID, r.vit.Energy)
	}
	return pop
}

// Snapshot captures the complete world state.
func (w *World) Snapshot() *telemetry.Snapshot {
	return w.snapshot(nil)
}

// BookmarkSnapshot captures the world state tagged with a bookmark.
func (w *World) BookmarkSnapshot(bm telemetry.Bookmark) *telemetry.Snapshot {
	return w.snapshot(&bm)
}

func (w *World) snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RNGSeed:   w.seed,
		WorldSize: w.cfg.World.Size,
		Tick:      w.tick,
		Plants:    w.flora.Snapshot(),
		Bookmark:  bookmark,
	}

	for _, r := range w.organisms() {
		state := telemetry.OrganismState{
			ID:           r.ident.ID,
			Name:         r.ident.Name,
			Generation:   r.ident.Generation,
			ParentA:      r.ident.ParentA,
			ParentB:      r.ident.ParentB,
			BirthTick:    r.ident.BirthTick,
			X:            r.pos.X,
			Y:            r.pos.Y,
			Z:            r.pos.Z,
			Energy:       r.vit.Energy,
			Age:          r.vit.Age,
			Alive:        r.vit.Alive,
			MateCooldown: r.vit.MateCooldown,
			Genome:       r.genes.Genome,
			Lifetime:     w.lifetime.Get(r.ident.ID).ToJSON(),
		}
		snapshot.Organisms = append(snapshot.Organisms, state)
	}

	return snapshot
}
