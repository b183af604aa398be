package systems

import (
	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/config"
	"github.com/Jinkieyz/lajfi/genetics"
)

// Upkeep holds per-tick metabolic costs.
type Upkeep struct {
	Base       float64
	Complexity float64 // per unit of levels*children
	Move       float64 // per unit of distance moved this tick
}

// NewUpkeep builds upkeep costs from the energy config.
func NewUpkeep(cfg config.EnergyConfig) Upkeep {
	return Upkeep{
		Base:       cfg.BaseCost,
		Complexity: cfg.ComplexityCost,
		Move:       cfg.MoveCost,
	}
}

// Cost returns the energy charged for one tick.
func (u Upkeep) Cost(g genetics.Genome, moved float64) float64 {
	return u.Base + u.Complexity*g.Complexity() + u.Move*moved
}

// Metabolize applies one tick of upkeep, ages the organism, counts down its
// mating cooldown and checks for death. An organism dies of old age once its
// age exceeds maxAge; maxAge <= 0 disables old age.
// Returns the energy charged.
func Metabolize(vit *components.Vitals, g genetics.Genome, u Upkeep, maxAge int) float64 {
	if !vit.Alive {
		return 0
	}

	cost := u.Cost(g, vit.Moved)
	vit.Energy -= cost
	vit.Age++
	if vit.MateCooldown > 0 {
		vit.MateCooldown--
	}

	if vit.Energy <= 0 {
		vit.Energy = 0
		vit.Alive = false
	}
	if maxAge > 0 && vit.Age > int64(maxAge) {
		vit.Alive = false
	}
	return cost
}
