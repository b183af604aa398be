package telemetry

// LifetimeStats tracks per-organism statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int64
	Generation int

	// Reproduction
	Children int

	// Feeding; kills count as meals too
	Meals       int
	EnergyEaten float64
	Kills       int

	PeakEnergy float64
}

// Lifespan returns the number of ticks lived as of tick.
func (ls *LifetimeStats) Lifespan(tick int64) int64 {
	return tick - ls.BirthTick
}

// LifetimeTracker manages per-organism lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new organism.
func (lt *LifetimeTracker) Register(id uint32, birthTick int64, generation int, energy float64) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Generation: generation,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for an organism, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an organism's stats and returns them (for logging).
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordMeal adds a meal and its energy.
func (lt *LifetimeTracker) RecordMeal(id uint32, amount float64) {
	if s := lt.stats[id]; s != nil {
		s.Meals++
		s.EnergyEaten += amount
	}
}

// RecordKill counts a kill and the energy taken from the prey.
func (lt *LifetimeTracker) RecordKill(id uint32, gained float64) {
	if s := lt.stats[id]; s != nil {
		s.Kills++
		s.Meals++
		s.EnergyEaten += gained
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint32, energy float64) {
	if s := lt.stats[id]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
