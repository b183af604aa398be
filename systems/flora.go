package systems

import (
	"math"
	"math/rand"
	"slices"

	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/config"
)

// maxSpawnAttempts bounds the fertility rejection sampling per plant.
const maxSpawnAttempts = 8

// Plant is a food source. Plants live outside the ECS.
type Plant struct {
	ID     uint32  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Energy float64 `json:"energy"`
	Age    int64   `json:"age"`
}

// Position returns the plant's location.
func (p Plant) Position() components.Position {
	return components.Position{X: p.X, Y: p.Y, Z: p.Z}
}

// FloraSystem manages plants and their regrowth queue.
type FloraSystem struct {
	// Plants is kept sorted by ID.
	Plants []Plant

	regrow    []int // countdowns for consumed plants
	bounds    Bounds
	cfg       config.PlantsConfig
	maxPlants int
	fertility *Fertility
	nextID    uint32
}

// NewFloraSystem creates a new flora management system.
// fertility may be nil for uniform placement.
func NewFloraSystem(bounds Bounds, cfg config.PlantsConfig, maxPlants int, fertility *Fertility) *FloraSystem {
	return &FloraSystem{
		Plants:    make([]Plant, 0, maxPlants),
		bounds:    bounds,
		cfg:       cfg,
		maxPlants: maxPlants,
		fertility: fertility,
		nextID:    1,
	}
}

// Seed fills the world up to the plant cap.
func (f *FloraSystem) Seed(rng *rand.Rand) int {
	n := 0
	for f.Spawn(rng) {
		n++
	}
	return n
}

// Spawn places one plant at a fertility-weighted position.
// Returns false without drawing from rng when the cap is reached.
func (f *FloraSystem) Spawn(rng *rand.Rand) bool {
	if len(f.Plants) >= f.maxPlants {
		return false
	}
	x, y := f.spot(rng)
	f.Plants = append(f.Plants, Plant{
		ID:     f.nextID,
		X:      x,
		Y:      y,
		Z:      f.cfg.Height,
		Energy: f.cfg.Energy,
	})
	f.nextID++
	return true
}

func (f *FloraSystem) spot(rng *rand.Rand) (x, y float64) {
	for attempt := 0; ; attempt++ {
		x, y = f.bounds.RandomXY(rng)
		if f.fertility == nil || attempt == maxSpawnAttempts-1 {
			return x, y
		}
		if rng.Float64() < f.fertility.At(x, y) {
			return x, y
		}
	}
}

// Nearest returns the index of the plant closest to pos, or -1 if there are
// none. Ties go to the lower id.
func (f *FloraSystem) Nearest(pos components.Position) int {
	best := -1
	bestDist := math.Inf(1)
	for i := range f.Plants {
		d := pos.DistanceSqTo(f.Plants[i].Position())
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// NearestWithin returns the index of the closest plant within radius, or -1.
func (f *FloraSystem) NearestWithin(pos components.Position, radius float64) int {
	i := f.Nearest(pos)
	if i < 0 {
		return -1
	}
	if pos.DistanceSqTo(f.Plants[i].Position()) > radius*radius {
		return -1
	}
	return i
}

// Consume removes the plant at index i and queues its regrowth.
func (f *FloraSystem) Consume(i int) Plant {
	p := f.Plants[i]
	f.Plants = slices.Delete(f.Plants, i, i+1)
	f.regrow = append(f.regrow, f.cfg.RegrowDelay)
	return p
}

// Replenish ages and grows plants, advances regrowth countdowns and respawns
// due plants up to the cap. Returns the number of plants spawned.
func (f *FloraSystem) Replenish(rng *rand.Rand) int {
	maxEnergy := f.cfg.Energy * f.cfg.MaxEnergyFactor
	for i := range f.Plants {
		p := &f.Plants[i]
		p.Age++
		if f.cfg.GrowthInterval > 0 && p.Age%int64(f.cfg.GrowthInterval) == 0 {
			p.Energy = math.Min(p.Energy+f.cfg.GrowthAmount, maxEnergy)
		}
	}

	spawned := 0
	pending := f.regrow[:0]
	for _, c := range f.regrow {
		if c > 0 {
			pending = append(pending, c-1)
			continue
		}
		// Due: respawn, or drop silently at the cap.
		if f.Spawn(rng) {
			spawned++
		}
	}
	f.regrow = pending
	return spawned
}

// Count returns the number of living plants.
func (f *FloraSystem) Count() int {
	return len(f.Plants)
}

// Pending returns the number of queued regrowths.
func (f *FloraSystem) Pending() int {
	return len(f.regrow)
}

// TotalEnergy sums the energy held by all plants.
func (f *FloraSystem) TotalEnergy() float64 {
	var sum float64
	for _, p := range f.Plants {
		sum += p.Energy
	}
	return sum
}

// Snapshot returns a copy of the plant list.
func (f *FloraSystem) Snapshot() []Plant {
	return slices.Clone(f.Plants)
}
