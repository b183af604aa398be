package systems

import "testing"

func TestFertility_Range(t *testing.T) {
	f := NewFertility(42, 0.15)
	for x := -10.0; x <= 10; x += 0.5 {
		for y := -10.0; y <= 10; y += 0.5 {
			v := f.At(x, y)
			if v < fertilityFloor || v > 1 {
				t.Fatalf("At(%v,%v) = %v outside [%v,1]", x, y, v, fertilityFloor)
			}
		}
	}
}

func TestFertility_Deterministic(t *testing.T) {
	a := NewFertility(7, 0.15)
	b := NewFertility(7, 0.15)
	for _, p := range [][2]float64{{0, 0}, {1.5, -3}, {7.2, 7.9}} {
		if a.At(p[0], p[1]) != b.At(p[0], p[1]) {
			t.Errorf("fertility at %v differs between identical seeds", p)
		}
	}
}
