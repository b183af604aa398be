package genetics

import (
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Blend bounds for real-valued genes outside the form groups.
const (
	blendMin = 0.30
	blendMax = 0.70
)

// DefaultStrength is the default multiplicative perturbation bound.
const DefaultStrength = 0.25

// Params controls mutation.
type Params struct {
	Rate     float64 // Per-gene probability of perturbation
	Strength float64 // Continuous genes are scaled by 1 ± U(0, Strength)
}

// Crossover combines two parents into a child genome.
// Form groups and integer genes are taken whole from one parent; the
// remaining reals are blended with a weight drawn from [0.30, 0.70].
func Crossover(a, b Genome, rng *rand.Rand) Genome {
	var child Genome

	for i := range child.Forms {
		if rng.Intn(2) == 0 {
			child.Forms[i] = a.Forms[i]
		} else {
			child.Forms[i] = b.Forms[i]
		}
	}

	child.Levels = pick(a.Levels, b.Levels, rng)
	child.Children = pick(a.Children, b.Children, rng)

	child.Scale = ScaleDomain.Clamp(blend(a.Scale, b.Scale, rng))
	child.Speed = SpeedDomain.Clamp(blend(a.Speed, b.Speed, rng))
	for i := range child.Color {
		child.Color[i] = UnitDomain.Clamp(blend(a.Color[i], b.Color[i], rng))
	}
	child.Aggression = UnitDomain.Clamp(blend(a.Aggression, b.Aggression, rng))

	return child
}

// Mutate perturbs each gene with probability rate using the default strength.
func Mutate(g Genome, rate float64, rng *rand.Rand) Genome {
	return MutateWith(g, Params{Rate: rate, Strength: DefaultStrength}, rng)
}

// MutateWith perturbs each gene independently with probability p.Rate and
// clamps the result to the gene's domain. Integer genes move by ±2 (symmetry)
// or ±1 (counts) with a uniform sign; a step past the edge is clamped, so a
// gene on its edge stays put half the time.
func MutateWith(g Genome, p Params, rng *rand.Rand) Genome {
	genes := g.Genes()
	for i, v := range genes {
		if rng.Float64() >= p.Rate {
			continue
		}
		d := DomainOf(i)
		up := rng.Intn(2) == 0
		switch d.Kind {
		case KindSymmetry:
			genes[i] = float64(step(int(v), 2, int(d.Min), int(d.Max), up))
		case KindCount:
			genes[i] = float64(step(int(v), 1, int(d.Min), int(d.Max), up))
		default:
			u := rng.Float64() * p.Strength
			switch {
			case v == 0:
				v = u
			case up:
				v *= 1 + u
			default:
				v *= 1 - u
			}
			genes[i] = d.Clamp(v)
		}
	}
	out, _ := FromGenes(genes)
	return out
}

// Offspring is Mutate(Crossover(a, b)).
func Offspring(a, b Genome, p Params, rng *rand.Rand) Genome {
	return MutateWith(Crossover(a, b, rng), p, rng)
}

func pick[T any](a, b T, rng *rand.Rand) T {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

func blend(a, b float64, rng *rand.Rand) float64 {
	w := blendMin + rng.Float64()*(blendMax-blendMin)
	return w*a + (1-w)*b
}

func step[T constraints.Integer](v, by, lo, hi T, up bool) T {
	if !up {
		by = -by
	}
	return clamp(v+by, lo, hi)
}
