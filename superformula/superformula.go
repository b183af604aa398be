// Package superformula evaluates Gielis superformula radii and samples a
// genome's three body forms into a ShapeDescriptor for an external renderer.
package superformula

import (
	"math"

	"github.com/Jinkieyz/lajfi/genetics"
)

const (
	// minN1 keeps the exponent -1/n1 bounded.
	minN1 = 1e-3
	// minBase is the smallest base raised to -1/n1; below it the radius is 1.
	minBase = 1e-4
)

// Radius computes r = (|cos(m*theta/4)|^n2 + |sin(m*theta/4)|^n3)^(-1/n1).
// Exponents are applied to absolute values so fractional powers stay defined.
func Radius(theta, m, n1, n2, n3 float64) float64 {
	if math.Abs(n1) < minN1 {
		if n1 < 0 {
			n1 = -minN1
		} else {
			n1 = minN1
		}
	}

	a := m * theta / 4
	base := math.Pow(math.Abs(math.Cos(a)), n2) + math.Pow(math.Abs(math.Sin(a)), n3)
	if !(base >= minBase) {
		return 1.0
	}

	r := math.Pow(base, -1/n1)
	if math.IsNaN(r) {
		return 1.0
	}
	return r
}

// Radius3D is the spherical product of the form's longitude profile at theta
// and its latitude profile at phi.
func Radius3D(theta, phi float64, f genetics.FormGenes) float64 {
	long := Radius(theta, float64(f.M1), f.N1, f.N2, f.N3)
	lat := Radius(phi, float64(f.M2), f.N1b, f.N2b, f.N3b)
	return long * lat
}
