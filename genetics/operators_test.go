package genetics

import (
	"math"
	"math/rand"
	"testing"
)

func TestCrossoverNeverBlendsForms(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a := Random(rng)
	b := Random(rng)
	a.Forms[0].M1, a.Forms[0].N1 = 5, 0.3
	b.Forms[0].M1, b.Forms[0].N1 = 3, 0.5

	sawA, sawB := false, false
	for i := 0; i < 200; i++ {
		child := Crossover(a, b, rng)
		for f := range child.Forms {
			fromA := child.Forms[f] == a.Forms[f]
			fromB := child.Forms[f] == b.Forms[f]
			if !fromA && !fromB {
				t.Fatalf("form %d blended: %+v", f, child.Forms[f])
			}
		}
		if child.Forms[0].M1 == 4 || math.Abs(child.Forms[0].N1-0.4) < 1e-12 {
			t.Fatalf("form 0 looks averaged: %+v", child.Forms[0])
		}
		if child.Forms[0] == a.Forms[0] {
			sawA = true
		} else {
			sawB = true
		}
	}
	if !sawA || !sawB {
		t.Errorf("coin flip never chose both parents (A=%v B=%v)", sawA, sawB)
	}
}

func TestCrossoverWithoutMutationStaysBetweenParents(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	a := Random(rng)
	b := Random(rng)

	between := func(v, x, y float64) bool {
		lo, hi := math.Min(x, y), math.Max(x, y)
		return v >= lo-1e-12 && v <= hi+1e-12
	}

	for i := 0; i < 500; i++ {
		child := Mutate(Crossover(a, b, rng), 0, rng)

		if child.Levels != a.Levels && child.Levels != b.Levels {
			t.Fatalf("levels %d from neither parent", child.Levels)
		}
		if child.Children != a.Children && child.Children != b.Children {
			t.Fatalf("children %d from neither parent", child.Children)
		}
		if !between(child.Scale, a.Scale, b.Scale) {
			t.Fatalf("scale %v outside parents [%v, %v]", child.Scale, a.Scale, b.Scale)
		}
		if !between(child.Speed, a.Speed, b.Speed) {
			t.Fatalf("speed %v outside parents [%v, %v]", child.Speed, a.Speed, b.Speed)
		}
		for c := range child.Color {
			if !between(child.Color[c], a.Color[c], b.Color[c]) {
				t.Fatalf("color[%d] %v outside parents", c, child.Color[c])
			}
		}
		if !child.InDomain() {
			t.Fatalf("child out of domain: %+v", child)
		}
	}
}

func TestCrossoverBlendWeightRange(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := Genome{Levels: 2, Children: 2, Scale: 0.45, Speed: 0.2}
	b := Genome{Levels: 2, Children: 2, Scale: 0.70, Speed: 0.5}

	for i := 0; i < 1000; i++ {
		child := Crossover(a, b, rng)
		// speed = w*0.2 + (1-w)*0.5 with w in [0.3, 0.7] -> [0.29, 0.41]
		if child.Speed < 0.29-1e-9 || child.Speed > 0.41+1e-9 {
			t.Fatalf("speed %v implies blend weight outside [0.3, 0.7]", child.Speed)
		}
	}
}

func TestMutateRateZeroIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		g := Random(rng)
		if got := Mutate(g, 0, rng); got != g {
			t.Fatalf("rate 0 changed genome")
		}
	}
}

func TestMutateDoesNotModifyInput(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	g := Random(rng)
	before := g
	_ = Mutate(g, 1, rng)
	if g != before {
		t.Error("Mutate modified its argument")
	}
}

func TestMutateStaysInDomain(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	g := Random(rng)
	for i := 0; i < 5000; i++ {
		g = MutateWith(g, Params{Rate: 0.5, Strength: 0.25}, rng)
		if !g.InDomain() {
			t.Fatalf("iteration %d left domain: %+v", i, g)
		}
	}
}

func TestMutateRateConverges(t *testing.T) {
	rates := []float64{0.05, 0.20, 0.60}
	for _, rate := range rates {
		rng := rand.New(rand.NewSource(int64(rate * 1000)))
		const samples = 5000
		changed, total := 0, 0
		for i := 0; i < samples; i++ {
			g := Random(rng)
			m := Mutate(g, rate, rng)
			before, after := g.Genes(), m.Genes()
			for j := range before {
				// Integer genes on an edge can be clamped back to where they were
				if DomainOf(j).Kind != KindContinuous {
					continue
				}
				if before[j] != after[j] {
					changed++
				}
				total++
			}
		}
		got := float64(changed) / float64(total)
		if math.Abs(got-rate) > 0.01 {
			t.Errorf("rate %.2f: altered fraction = %.4f", rate, got)
		}
	}
}

func TestMutateIntegerSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for i := 0; i < 500; i++ {
		g := Random(rng)
		m := Mutate(g, 1, rng)
		for f := range g.Forms {
			if d := abs(m.Forms[f].M1 - g.Forms[f].M1); d != 2 && d != 0 && d != 1 {
				t.Fatalf("m1 moved by %d", d)
			}
			if d := abs(m.Forms[f].M2 - g.Forms[f].M2); d != 2 && d != 0 && d != 1 {
				t.Fatalf("m2 moved by %d", d)
			}
		}
		if d := abs(m.Levels - g.Levels); d > 1 {
			t.Fatalf("levels moved by %d", d)
		}
		if d := abs(m.Children - g.Children); d > 1 {
			t.Fatalf("children moved by %d", d)
		}
	}
}

func TestMutateIntegerEdgesClamp(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*Genome)
		get   func(Genome) int
		stay  int
		moved int
	}{
		{"levels at min", func(g *Genome) { g.Levels = 2 }, func(g Genome) int { return g.Levels }, 2, 3},
		{"levels at max", func(g *Genome) { g.Levels = 3 }, func(g Genome) int { return g.Levels }, 3, 2},
		{"children at max", func(g *Genome) { g.Children = 5 }, func(g Genome) int { return g.Children }, 5, 4},
		{"m1 at max", func(g *Genome) { g.Forms[0].M1 = MMax }, func(g Genome) int { return g.Forms[0].M1 }, MMax, MMax - 2},
		{"m2 one above min", func(g *Genome) { g.Forms[0].M2 = 1 }, func(g Genome) int { return g.Forms[0].M2 }, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(17))
			g := Random(rng)
			tt.set(&g)

			const n = 2000
			counts := make(map[int]int)
			for i := 0; i < n; i++ {
				counts[tt.get(Mutate(g, 1, rng))]++
			}
			if len(counts) != 2 {
				t.Fatalf("outcomes = %v, want only %d and %d", counts, tt.stay, tt.moved)
			}
			frac := float64(counts[tt.stay]) / n
			if math.Abs(frac-0.5) > 0.05 {
				t.Errorf("clamped fraction = %.3f, want about 0.5 (%v)", frac, counts)
			}
		})
	}
}

func TestMutateContinuousBound(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 500; i++ {
		g := Random(rng)
		m := MutateWith(g, Params{Rate: 1, Strength: 0.25}, rng)
		for f := range g.Forms {
			ratio := m.Forms[f].N2 / g.Forms[f].N2
			clamped := m.Forms[f].N2 == LobeDomain.Min || m.Forms[f].N2 == LobeDomain.Max
			if !clamped && (ratio < 0.75-1e-9 || ratio > 1.25+1e-9) {
				t.Fatalf("n2 ratio %v outside [0.75, 1.25]", ratio)
			}
		}
	}
}

func TestOffspringDeterministic(t *testing.T) {
	a := Random(rand.New(rand.NewSource(1)))
	b := Random(rand.New(rand.NewSource(2)))
	p := Params{Rate: 0.2, Strength: 0.25}

	c1 := Offspring(a, b, p, rand.New(rand.NewSource(99)))
	c2 := Offspring(a, b, p, rand.New(rand.NewSource(99)))
	if c1 != c2 {
		t.Error("same seed produced different offspring")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
