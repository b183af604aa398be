package systems

import (
	"math"
	"math/rand"

	"github.com/Jinkieyz/lajfi/components"
	"github.com/Jinkieyz/lajfi/config"
)

// verticalDamping scales the z component of movement.
const verticalDamping = 0.2

// Bounds describes the square world centered on the origin.
type Bounds struct {
	Limit      float64 // |x| and |y| never exceed this
	ZMin, ZMax float64
}

// NewBounds derives bounds from the world config.
func NewBounds(cfg config.WorldConfig) Bounds {
	return Bounds{
		Limit: cfg.Size/2 - cfg.Margin,
		ZMin:  cfg.ZMin,
		ZMax:  cfg.ZMax,
	}
}

// Clamp forces a position inside the bounds.
func (b Bounds) Clamp(p components.Position) components.Position {
	p.X = clampFloat(p.X, -b.Limit, b.Limit)
	p.Y = clampFloat(p.Y, -b.Limit, b.Limit)
	p.Z = clampFloat(p.Z, b.ZMin, b.ZMax)
	return p
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p components.Position) bool {
	return math.Abs(p.X) <= b.Limit && math.Abs(p.Y) <= b.Limit && p.Z >= b.ZMin && p.Z <= b.ZMax
}

// RandomXY draws a point uniformly from the horizontal extent.
func (b Bounds) RandomXY(rng *rand.Rand) (x, y float64) {
	x = (rng.Float64()*2 - 1) * b.Limit
	y = (rng.Float64()*2 - 1) * b.Limit
	return x, y
}

// RandomPosition draws a point uniformly from the whole volume.
func (b Bounds) RandomPosition(rng *rand.Rand) components.Position {
	x, y := b.RandomXY(rng)
	z := b.ZMin + rng.Float64()*(b.ZMax-b.ZMin)
	return components.Position{X: x, Y: y, Z: z}
}

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
