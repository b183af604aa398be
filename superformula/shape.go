package superformula

import (
	"fmt"
	"math"
	"time"

	"github.com/Jinkieyz/lajfi/genetics"
)

// MinResolution is the smallest angular resolution SampleShape accepts.
const MinResolution = 4

// Sample is one point on a form's surface in spherical coordinates.
type Sample struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	R     float64 `json:"r"`
}

// FormGrid holds the samples of one Gielis form, row-major by phi:
// Samples[row*ThetaSteps+col] has Phi = row*pi/(PhiSteps-1) and
// Theta = col*2pi/ThetaSteps.
type FormGrid struct {
	ThetaSteps int      `json:"theta_steps"`
	PhiSteps   int      `json:"phi_steps"`
	Samples    []Sample `json:"samples"`
}

// At returns the sample at (row, col).
func (g FormGrid) At(row, col int) Sample {
	return g.Samples[row*g.ThetaSteps+col]
}

// FractalMeta tells the renderer how to place recursive child shapes.
type FractalMeta struct {
	Levels   int     `json:"levels"`
	Children int     `json:"children"`
	Scale    float64 `json:"scale"`
	// Anchors are indices into Forms[0].Samples where level-1 children attach.
	Anchors []int `json:"anchors"`
}

// ShapeDescriptor is an immutable numeric description of an organism's body.
// It carries no references into simulation state.
type ShapeDescriptor struct {
	OrganismID uint32                      `json:"organism_id"`
	Name       string                      `json:"name"`
	Generation int                         `json:"generation"`
	Tick       int64                       `json:"tick"`
	Timestamp  time.Time                   `json:"timestamp"`
	Forms      [genetics.NumForms]FormGrid `json:"forms"`
	Fractal    FractalMeta                 `json:"fractal"`
	Color      [3]float64                  `json:"color"`
}

// SampleShape evaluates the three forms of g on a theta x phi grid. Identity
// fields are left zero for the caller to fill in.
func SampleShape(g genetics.Genome, resolution int) ShapeDescriptor {
	if resolution < MinResolution {
		resolution = MinResolution
	}
	thetaSteps := resolution
	phiSteps := resolution/2 + 1

	var d ShapeDescriptor
	for i, f := range g.Forms {
		grid := FormGrid{
			ThetaSteps: thetaSteps,
			PhiSteps:   phiSteps,
			Samples:    make([]Sample, 0, thetaSteps*phiSteps),
		}
		for row := 0; row < phiSteps; row++ {
			phi := float64(row) * math.Pi / float64(phiSteps-1)
			for col := 0; col < thetaSteps; col++ {
				theta := float64(col) * 2 * math.Pi / float64(thetaSteps)
				grid.Samples = append(grid.Samples, Sample{
					Theta: theta,
					Phi:   phi,
					R:     Radius3D(theta, phi, f),
				})
			}
		}
		d.Forms[i] = grid
	}

	d.Fractal = FractalMeta{
		Levels:   g.Levels,
		Children: g.Children,
		Scale:    g.Scale,
		Anchors:  anchors(len(d.Forms[0].Samples), g.Children),
	}
	d.Color = g.Color
	return d
}

// anchors picks n evenly strided sample indices, offset by half a stride.
func anchors(total, n int) []int {
	if n <= 0 || total == 0 {
		return nil
	}
	step := total / n
	if step < 1 {
		step = 1
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		idx := (step/2 + i*step) % total
		out = append(out, idx)
	}
	return out
}

// Validate returns an error describing the first non-finite or negative radius.
func (d ShapeDescriptor) Validate() error {
	for i, grid := range d.Forms {
		if len(grid.Samples) != grid.ThetaSteps*grid.PhiSteps {
			return fmt.Errorf("form %d: %d samples for a %dx%d grid", i, len(grid.Samples), grid.ThetaSteps, grid.PhiSteps)
		}
		for j, s := range grid.Samples {
			if math.IsNaN(s.R) || math.IsInf(s.R, 0) || s.R < 0 {
				return fmt.Errorf("form %d sample %d (theta=%.3f phi=%.3f): radius %v", i, j, s.Theta, s.Phi, s.R)
			}
		}
	}
	if !finite(d.Fractal.Scale) {
		return fmt.Errorf("fractal scale %v", d.Fractal.Scale)
	}
	return nil
}

// Clone returns a deep copy that shares no slices with d.
func (d ShapeDescriptor) Clone() ShapeDescriptor {
	out := d
	for i, grid := range d.Forms {
		out.Forms[i].Samples = append([]Sample(nil), grid.Samples...)
	}
	out.Fractal.Anchors = append([]int(nil), d.Fractal.Anchors...)
	return out
}

// MaxRadius returns the largest radius across all forms.
func (d ShapeDescriptor) MaxRadius() float64 {
	var m float64
	for _, grid := range d.Forms {
		for _, s := range grid.Samples {
			if s.R > m {
				m = s.R
			}
		}
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
