// Package genetics defines the heritable genome and the operators that
// produce new genomes: genesis randomization, crossover and mutation.
package genetics

import (
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// NumForms is the number of Gielis body forms (primary, secondary, tertiary).
const NumForms = 3

// GenesPerForm is the number of scalars in one form group.
const GenesPerForm = 8

// NumGenes is the total number of scalar genes in a Genome.
const NumGenes = NumForms*GenesPerForm + 8

// MMax is the largest symmetry value.
const MMax = 14

// Gene domains.
var (
	SymmetryDomain  = Domain{Min: 0, Max: MMax, Kind: KindSymmetry}
	RoundnessDomain = Domain{Min: 0.08, Max: 1.0, Kind: KindContinuous}
	LobeDomain      = Domain{Min: 0.4, Max: 3.5, Kind: KindContinuous}
	LevelsDomain    = Domain{Min: 2, Max: 3, Kind: KindCount}
	ChildrenDomain  = Domain{Min: 2, Max: 5, Kind: KindCount}
	ScaleDomain     = Domain{Min: 0.45, Max: 0.70, Kind: KindContinuous}
	SpeedDomain     = Domain{Min: 0.2, Max: 0.5, Kind: KindContinuous}
	UnitDomain      = Domain{Min: 0, Max: 1, Kind: KindContinuous}
)

// GeneKind selects the mutation rule for a gene.
type GeneKind uint8

const (
	KindContinuous GeneKind = iota // multiplicative perturbation
	KindSymmetry                   // integer, steps of 2
	KindCount                      // integer, steps of 1
)

// Domain is the closed range a gene must stay within.
type Domain struct {
	Min, Max float64
	Kind     GeneKind
}

// Contains reports whether v lies in the domain (and is integral for integer kinds).
func (d Domain) Contains(v float64) bool {
	if math.IsNaN(v) || v < d.Min || v > d.Max {
		return false
	}
	if d.Kind != KindContinuous && v != math.Trunc(v) {
		return false
	}
	return true
}

// Clamp forces v into the domain, rounding integer kinds.
func (d Domain) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		v = d.Min
	}
	if d.Kind != KindContinuous {
		v = math.Round(v)
	}
	return clamp(v, d.Min, d.Max)
}

// Random draws a value uniformly from the domain.
func (d Domain) Random(rng *rand.Rand) float64 {
	if d.Kind != KindContinuous {
		lo, hi := int(d.Min), int(d.Max)
		return float64(lo + rng.Intn(hi-lo+1))
	}
	return d.Min + rng.Float64()*(d.Max-d.Min)
}

// FormGenes is one Gielis form group: a longitude and a latitude superformula
// profile combined by the spherical product. It is inherited as a unit.
type FormGenes struct {
	// Longitude profile
	M1 int     `json:"m1"`
	N1 float64 `json:"n1"`
	N2 float64 `json:"n2"`
	N3 float64 `json:"n3"`

	// Latitude profile
	M2  int     `json:"m2"`
	N1b float64 `json:"n1b"`
	N2b float64 `json:"n2b"`
	N3b float64 `json:"n3b"`
}

// Genome holds all heritable genes. It is a plain value: copying it copies
// every gene, and no operator in this package modifies its input.
type Genome struct {
	Forms [NumForms]FormGenes `json:"forms"`

	// Fractal outgrowth
	Levels   int     `json:"levels"`
	Children int     `json:"children"`
	Scale    float64 `json:"scale"`

	// Behavior
	Speed float64 `json:"speed"`

	Color      [3]float64 `json:"color"`
	Aggression float64    `json:"aggression"` // chance to attack a nearby organism when hungry
}

// formDomains lists the domain of each scalar in a form group, in Genes() order.
var formDomains = [GenesPerForm]Domain{
	SymmetryDomain, RoundnessDomain, LobeDomain, LobeDomain,
	SymmetryDomain, RoundnessDomain, LobeDomain, LobeDomain,
}

// tailDomains lists the domains of the non-form genes, in Genes() order.
var tailDomains = [NumGenes - NumForms*GenesPerForm]Domain{
	LevelsDomain, ChildrenDomain, ScaleDomain, SpeedDomain,
	UnitDomain, UnitDomain, UnitDomain, UnitDomain,
}

// DomainOf returns the domain of the i-th gene in Genes() order.
func DomainOf(i int) Domain {
	if i < NumForms*GenesPerForm {
		return formDomains[i%GenesPerForm]
	}
	return tailDomains[i-NumForms*GenesPerForm]
}

// Genes flattens the genome into NumGenes scalars in a fixed order:
// each form's m1, n1, n2, n3, m2, n1b, n2b, n3b, then levels, children,
// scale, speed, color r, g, b, aggression.
func (g Genome) Genes() []float64 {
	out := make([]float64, 0, NumGenes)
	for _, f := range g.Forms {
		out = append(out,
			float64(f.M1), f.N1, f.N2, f.N3,
			float64(f.M2), f.N1b, f.N2b, f.N3b,
		)
	}
	out = append(out,
		float64(g.Levels), float64(g.Children), g.Scale, g.Speed,
		g.Color[0], g.Color[1], g.Color[2], g.Aggression,
	)
	return out
}

// FromGenes rebuilds a genome from a flattened gene vector, clamping every
// value into its domain.
func FromGenes(v []float64) (Genome, error) {
	if len(v) != NumGenes {
		return Genome{}, fmt.Errorf("gene vector has %d values, want %d", len(v), NumGenes)
	}
	c := make([]float64, NumGenes)
	for i, x := range v {
		c[i] = DomainOf(i).Clamp(x)
	}

	var g Genome
	for f := 0; f < NumForms; f++ {
		o := f * GenesPerForm
		g.Forms[f] = FormGenes{
			M1: int(c[o]), N1: c[o+1], N2: c[o+2], N3: c[o+3],
			M2: int(c[o+4]), N1b: c[o+5], N2b: c[o+6], N3b: c[o+7],
		}
	}
	t := NumForms * GenesPerForm
	g.Levels = int(c[t])
	g.Children = int(c[t+1])
	g.Scale = c[t+2]
	g.Speed = c[t+3]
	g.Color = [3]float64{c[t+4], c[t+5], c[t+6]}
	g.Aggression = c[t+7]
	return g, nil
}

// InDomain reports whether every gene lies within its declared domain.
func (g Genome) InDomain() bool {
	for i, v := range g.Genes() {
		if !DomainOf(i).Contains(v) {
			return false
		}
	}
	return true
}

// Complexity is the fractal upkeep factor levels*children.
func (g Genome) Complexity() float64 {
	return float64(g.Levels * g.Children)
}

// Random draws a genesis genome with every gene uniform in its domain.
func Random(rng *rand.Rand) Genome {
	v := make([]float64, NumGenes)
	for i := range v {
		v[i] = DomainOf(i).Random(rng)
	}
	g, _ := FromGenes(v)
	return g
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
