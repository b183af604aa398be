package systems

import (
	"math"
	"math/rand"

	"github.com/Jinkieyz/lajfi/components"
)

// Move advances pos by up to speed*stepScale toward target without
// overshooting. With no target the organism wanders half a step along a
// random heading, which is the only case that draws from rng. The result is
// clamped to bounds and the distance covered is stored in vit.Moved.
func Move(
	pos *components.Position,
	vit *components.Vitals,
	speed, stepScale float64,
	target components.Position,
	hasTarget bool,
	bounds Bounds,
	rng *rand.Rand,
) {
	start := *pos
	step := speed * stepScale

	if hasTarget {
		dx := target.X - pos.X
		dy := target.Y - pos.Y
		dz := (target.Z - pos.Z) * verticalDamping
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if dist > 0 {
			move := math.Min(step, dist)
			pos.X += dx / dist * move
			pos.Y += dy / dist * move
			pos.Z += dz / dist * move
		}
	} else {
		heading := rng.Float64() * 2 * math.Pi
		pos.X += math.Cos(heading) * step * 0.5
		pos.Y += math.Sin(heading) * step * 0.5
	}

	*pos = bounds.Clamp(*pos)
	vit.Moved = pos.DistanceTo(start)
}
