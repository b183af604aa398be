package names

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"
)

func TestGenerateShape(t *testing.T) {
	g := Generator{MinLen: 4, MaxLen: 8, MaxRetries: 8}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		name := g.Generate(rng, nil)
		if len(name) < 4 || len(name) > 8 {
			t.Fatalf("%q has length %d, want [4,8]", name, len(name))
		}
		lower := strings.ToLower(name)
		for j, r := range lower {
			set := consonants
			if j%2 == 1 {
				set = vowels
			}
			if !strings.ContainsRune(set, r) {
				t.Fatalf("%q: letter %d (%c) not from the expected set", name, j, r)
			}
		}
		for _, r := range name {
			if !unicode.IsUpper(r) {
				t.Fatalf("%q is not upper case", name)
			}
		}
	}
}

func TestGenerateAvoidsExistingName(t *testing.T) {
	g := Default()
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		first := g.Generate(rng, nil)

		existing := Set{}
		existing.Add(first)
		second := g.Generate(rand.New(rand.NewSource(seed)), existing.Has)
		if second == first {
			t.Fatalf("seed %d: second call returned taken name %q", seed, first)
		}
	}
}

func TestGenerateSuffixWhenExhausted(t *testing.T) {
	// Length 1 names only have len(consonants) possibilities.
	g := Generator{MinLen: 1, MaxLen: 1, MaxRetries: 3}
	taken := Set{}
	for _, c := range strings.ToUpper(consonants) {
		taken.Add(string(c))
	}

	name := g.Generate(rand.New(rand.NewSource(5)), taken.Has)
	if taken.Has(name) {
		t.Fatalf("got taken name %q", name)
	}
	if !strings.HasSuffix(name, "2") || len(name) != 2 {
		t.Errorf("got %q, want a single letter with suffix 2", name)
	}

	taken.Add(name)
	next := g.Generate(rand.New(rand.NewSource(5)), taken.Has)
	if next == name || taken.Has(next) {
		t.Errorf("second suffixed name %q collides", next)
	}
}

func TestGenerateUniqueAcrossPopulation(t *testing.T) {
	g := Default()
	rng := rand.New(rand.NewSource(9))
	living := Set{}
	for i := 0; i < 3000; i++ {
		name := g.Generate(rng, living.Has)
		if living.Has(name) {
			t.Fatalf("duplicate name %q at %d", name, i)
		}
		living.Add(name)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := Default()
	a := g.Generate(rand.New(rand.NewSource(77)), nil)
	b := g.Generate(rand.New(rand.NewSource(77)), nil)
	if a != b {
		t.Errorf("same seed gave %q and %q", a, b)
	}
}
