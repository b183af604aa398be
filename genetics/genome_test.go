package genetics

import (
	"math"
	"math/rand"
	"testing"
)

func TestGeneCount(t *testing.T) {
	if NumGenes != 32 {
		t.Fatalf("NumGenes = %d, want 32", NumGenes)
	}
	g := Random(rand.New(rand.NewSource(1)))
	if got := len(g.Genes()); got != NumGenes {
		t.Errorf("len(Genes()) = %d, want %d", got, NumGenes)
	}
}

func TestRandomInDomain(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		g := Random(rng)
		if !g.InDomain() {
			t.Fatalf("genome %d out of domain: %+v", i, g)
		}
	}
}

func TestRandomCoversIntegerDomains(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	levels := map[int]bool{}
	children := map[int]bool{}
	for i := 0; i < 500; i++ {
		g := Random(rng)
		levels[g.Levels] = true
		children[g.Children] = true
	}
	for _, l := range []int{2, 3} {
		if !levels[l] {
			t.Errorf("levels=%d never drawn", l)
		}
	}
	for _, c := range []int{2, 3, 4, 5} {
		if !children[c] {
			t.Errorf("children=%d never drawn", c)
		}
	}
}

func TestFromGenesRoundTrip(t *testing.T) {
	g := Random(rand.New(rand.NewSource(11)))
	back, err := FromGenes(g.Genes())
	if err != nil {
		t.Fatalf("FromGenes: %v", err)
	}
	if back != g {
		t.Errorf("round trip changed genome:\n got %+v\nwant %+v", back, g)
	}
}

func TestFromGenesClamps(t *testing.T) {
	v := Random(rand.New(rand.NewSource(5))).Genes()
	v[0] = 99   // m1 of form 0
	v[1] = -4   // n1 of form 0
	v[24] = 7   // levels
	v[25] = 2.6 // children, rounds to 3
	v[27] = 10  // speed
	v[31] = math.NaN()

	g, err := FromGenes(v)
	if err != nil {
		t.Fatalf("FromGenes: %v", err)
	}
	if !g.InDomain() {
		t.Fatalf("clamped genome out of domain: %+v", g)
	}
	if g.Forms[0].M1 != MMax {
		t.Errorf("m1 = %d, want %d", g.Forms[0].M1, MMax)
	}
	if g.Levels != 3 || g.Children != 3 {
		t.Errorf("levels/children = %d/%d, want 3/3", g.Levels, g.Children)
	}
	if g.Speed != SpeedDomain.Max {
		t.Errorf("speed = %v, want %v", g.Speed, SpeedDomain.Max)
	}
}

func TestFromGenesWrongLength(t *testing.T) {
	if _, err := FromGenes(make([]float64, 28)); err == nil {
		t.Error("expected error for short vector")
	}
}

func TestDomainContains(t *testing.T) {
	tests := []struct {
		name string
		d    Domain
		v    float64
		want bool
	}{
		{"symmetry inside", SymmetryDomain, 6, true},
		{"symmetry fractional", SymmetryDomain, 6.5, false},
		{"symmetry above", SymmetryDomain, 16, false},
		{"levels edge", LevelsDomain, 3, true},
		{"children below", ChildrenDomain, 1, false},
		{"scale edge", ScaleDomain, 0.45, true},
		{"speed above", SpeedDomain, 0.51, false},
		{"nan", UnitDomain, math.NaN(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Contains(tt.v); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestComplexity(t *testing.T) {
	g := Genome{Levels: 3, Children: 4}
	if got := g.Complexity(); got != 12 {
		t.Errorf("Complexity() = %v, want 12", got)
	}
}
