package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

const (
	fertilityOctaves     = 3
	fertilityPersistence = 0.5
	// fertilityFloor keeps barren patches from rejecting every draw.
	fertilityFloor = 0.25
)

// Fertility is a smooth [0,1] field that biases where plants regrow.
type Fertility struct {
	noise      opensimplex.Noise
	scale      float64
	amplitudes []float64
	ampSum     float64
}

// NewFertility creates a fertility field. The field is a pure function of
// seed, so it never draws from the simulation PRNG.
func NewFertility(seed int64, scale float64) *Fertility {
	f := &Fertility{
		noise:      opensimplex.NewNormalized(seed),
		scale:      scale,
		amplitudes: make([]float64, fertilityOctaves),
	}
	for i := range f.amplitudes {
		f.amplitudes[i] = math.Pow(fertilityPersistence, float64(i))
		f.ampSum += f.amplitudes[i]
	}
	return f
}

// At returns the fertility at world coordinates (x, y), in [fertilityFloor, 1].
func (f *Fertility) At(x, y float64) float64 {
	var sum float64
	for octave, amp := range f.amplitudes {
		freq := float64(int(1) << octave)
		sum += amp * f.noise.Eval2(x*f.scale*freq, y*f.scale*freq)
	}
	v := clampFloat(sum/f.ampSum, 0, 1)
	return fertilityFloor + (1-fertilityFloor)*v
}
