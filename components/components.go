// Package components defines ECS components for the simulation.
package components

import (
	"math"

	"github.com/Jinkieyz/lajfi/genetics"
)

// Position represents an entity's world position.
type Position struct {
	X, Y, Z float64
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	return math.Sqrt(p.DistanceSqTo(o))
}

// DistanceSqTo returns the squared distance between two positions.
func (p Position) DistanceSqTo(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// Genes wraps the organism's immutable genome.
type Genes struct {
	Genome genetics.Genome
}
