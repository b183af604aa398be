package systems

import (
	"cmp"
	"math/rand"
	"slices"

	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/config"
)

// MatingRules gate and price reproduction.
type MatingRules struct {
	MaturityAge int
	Threshold   float64
	Cost        float64
	Range       float64
	Cooldown    int
}

// NewMatingRules builds rules from the reproduction config.
func NewMatingRules(cfg config.ReproductionConfig) MatingRules {
	return MatingRules{
		MaturityAge: cfg.MaturityAge,
		Threshold:   cfg.Threshold,
		Cost:        cfg.Cost,
		Range:       cfg.MatingRange,
		Cooldown:    cfg.Cooldown,
	}
}

// CanMate reports whether an organism is currently eligible to reproduce.
func (r MatingRules) CanMate(v *components.Vitals) bool {
	return v.Stage(r.MaturityAge) == components.StageAdult &&
		v.Energy >= r.Threshold &&
		v.MateCooldown == 0
}

// InRange reports whether two organisms are close enough to mate.
func (r MatingRules) InRange(a, b components.Position) bool {
	return a.DistanceSqTo(b) <= r.Range*r.Range
}

// Pay charges both parents and starts their cooldowns.
func (r MatingRules) Pay(a, b *components.Vitals) {
	a.Energy -= r.Cost
	b.Energy -= r.Cost
	a.MateCooldown = r.Cooldown
	b.MateCooldown = r.Cooldown
}

// Candidate is an organism offered for pairing.
type Candidate struct {
	ID  uint32
	Pos components.Position
	Vit *components.Vitals
}

// PairUp walks candidate pairs (i<j) in ascending id order. Each pair where
// both sides are still eligible and in range pays the mating cost and is
// passed to birth. Pairing stops once capacity births have been produced.
// Returns the number of pairs mated.
func PairUp(cands []Candidate, r MatingRules, capacity int, birth func(a, b Candidate)) int {
	slices.SortFunc(cands, func(a, b Candidate) int { return cmp.Compare(a.ID, b.ID) })

	mated := 0
	for i := range cands {
		for j := i + 1; j < len(cands); j++ {
			if mated >= capacity {
				return mated
			}
			a, b := cands[i], cands[j]
			if !r.CanMate(a.Vit) {
				break
			}
			if !r.CanMate(b.Vit) || !r.InRange(a.Pos, b.Pos) {
				continue
			}
			r.Pay(a.Vit, b.Vit)
			birth(a, b)
			mated++
		}
	}
	return mated
}

// ChildPosition places a newborn at the parents' midpoint, jittered
// horizontally by up to jitter and clamped to bounds.
func ChildPosition(a, b components.Position, jitter float64, bounds Bounds, rng *rand.Rand) components.Position {
	p := components.Position{
		X: (a.X+b.X)/2 + (rng.Float64()*2-1)*jitter,
		Y: (a.Y+b.Y)/2 + (rng.Float64()*2-1)*jitter,
		Z: (a.Z + b.Z) / 2,
	}
	return bounds.Clamp(p)
}
