package superformula

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Jinkieyz/lajfi/genetics"
)

func TestRadiusKnownValues(t *testing.T) {
	tests := []struct {
		name         string
		theta, m, n1 float64
		n2, n3       float64
		want         float64
	}{
		{"circle m0", 1.234, 0, 1, 1, 1, 1},
		{"unit circle n=2", 0.7, 4, 1, 2, 2, 1},
		{"square corner", 0, 4, 1, 1, 1, 1},
		{"square diagonal", math.Pi / 4, 4, 1, 1, 1, 1 / math.Sqrt2},
		{"tiny base falls back", math.Pi / 4, 4, 1, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Radius(tt.theta, tt.m, tt.n1, tt.n2, tt.n3)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Radius(%v, %v, %v, %v, %v) = %v, want %v",
					tt.theta, tt.m, tt.n1, tt.n2, tt.n3, got, tt.want)
			}
		})
	}
}

func TestRadiusZeroN1(t *testing.T) {
	for _, theta := range []float64{0, 0.3, math.Pi / 4, 2, 5} {
		r := Radius(theta, 6, 0, 1, 1)
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			t.Errorf("Radius with n1=0 at theta=%v = %v", theta, r)
		}
	}
}

func TestRadiusFiniteOverDomain(t *testing.T) {
	// Every corner of the continuous domains, every symmetry value.
	n1s := []float64{genetics.RoundnessDomain.Min, 0.5, genetics.RoundnessDomain.Max}
	lobes := []float64{genetics.LobeDomain.Min, 1.7, genetics.LobeDomain.Max}

	const steps = 720
	for m := 0; m <= genetics.MMax; m++ {
		for _, n1 := range n1s {
			for _, n2 := range lobes {
				for _, n3 := range lobes {
					for i := 0; i < steps; i++ {
						theta := float64(i) * 2 * math.Pi / steps
						r := Radius(theta, float64(m), n1, n2, n3)
						if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
							t.Fatalf("Radius(%v, %d, %v, %v, %v) = %v", theta, m, n1, n2, n3, r)
						}
					}
				}
			}
		}
	}
}

func TestRadius3DRandomGenomes(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 200; i++ {
		g := genetics.Random(rng)
		for _, f := range g.Forms {
			for j := 0; j < 50; j++ {
				theta := rng.Float64() * 2 * math.Pi
				phi := rng.Float64() * math.Pi
				r := Radius3D(theta, phi, f)
				if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
					t.Fatalf("Radius3D(%v, %v, %+v) = %v", theta, phi, f, r)
				}
			}
		}
	}
}

func TestRadius3DIsProduct(t *testing.T) {
	f := genetics.FormGenes{M1: 5, N1: 0.3, N2: 1.2, N3: 2.0, M2: 3, N1b: 0.6, N2b: 0.9, N3b: 1.4}
	theta, phi := 1.1, 0.4
	want := Radius(theta, 5, 0.3, 1.2, 2.0) * Radius(phi, 3, 0.6, 0.9, 1.4)
	if got := Radius3D(theta, phi, f); math.Abs(got-want) > 1e-12 {
		t.Errorf("Radius3D = %v, want %v", got, want)
	}
}
