package systems

import (
	"math"
	"math/rand"

	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/config"
	"github.com/Jinkieyz/lajfi/genetics"
)

// Attack and defence rolls scale strength by a uniform factor in these
// ranges. The defender's wider spread lets weak prey escape now and then.
const (
	attackRollMin, attackRollMax   = 0.8, 1.2
	defenceRollMin, defenceRollMax = 0.6, 1.4
)

// Combat holds predation rules.
type Combat struct {
	Range      float64
	AttackCost float64
	KillGain   float64
}

// NewCombat builds predation rules from the combat config.
func NewCombat(cfg config.CombatConfig) Combat {
	return Combat{
		Range:      cfg.Range,
		AttackCost: cfg.AttackCost,
		KillGain:   cfg.KillGain,
	}
}

// Enabled reports whether organisms may attack at all.
func (c Combat) Enabled() bool {
	return c.Range > 0
}

// InRange reports whether prey at squared distance distSq can be attacked.
func (c Combat) InRange(distSq float64) bool {
	return distSq <= c.Range*c.Range
}

// Strength is half the organism's energy plus a bonus for body complexity.
func Strength(v *components.Vitals, g genetics.Genome) float64 {
	return v.Energy*0.5 + float64(g.Levels)*5 + float64(g.Children)*2
}

// Provoked draws one value from rng and reports whether an organism with
// the given aggression starts a fight.
func Provoked(aggression float64, rng *rand.Rand) bool {
	return rng.Float64() < aggression
}

// Attack resolves one fight. The attacker pays AttackCost up front (energy
// never goes below zero), then each side rolls its strength. If the attacker
// wins it gains KillGain of the victim's energy, and the victim is left dead
// with zero energy. An attacker drained to zero is left for metabolism to
// reap. Exactly two values are drawn from rng.
// Returns the energy gained and whether the attacker won.
func (c Combat) Attack(att *components.Vitals, attGenome genetics.Genome, def *components.Vitals, defGenome genetics.Genome, rng *rand.Rand) (float64, bool) {
	att.Energy = math.Max(att.Energy-c.AttackCost, 0)

	attRoll := Strength(att, attGenome) * uniform(rng, attackRollMin, attackRollMax)
	defRoll := Strength(def, defGenome) * uniform(rng, defenceRollMin, defenceRollMax)
	if attRoll <= defRoll {
		return 0, false
	}

	gain := def.Energy * c.KillGain
	att.Energy += gain
	def.Energy = 0
	def.Alive = false
	return gain, true
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
