// Package names synthesizes short pronounceable organism names.
package names

import (
	"math/rand"
	"strconv"
	"strings"
)

const (
	consonants = "bdfgklmnprstvz"
	vowels     = "aeiou"
)

// Generator builds names alternating consonant and vowel, starting on a
// consonant. It holds no state beyond its settings.
type Generator struct {
	MinLen     int
	MaxLen     int
	MaxRetries int
}

// Default returns the generator used when no configuration is given.
func Default() Generator {
	return Generator{MinLen: 3, MaxLen: 5, MaxRetries: 8}
}

// Generate returns a name for which taken reports false. A nil taken accepts
// every name. After MaxRetries collisions the last candidate gets the
// smallest free numeric suffix starting at 2.
func (g Generator) Generate(rng *rand.Rand, taken func(string) bool) string {
	if taken == nil {
		taken = func(string) bool { return false }
	}

	name := g.syllables(rng)
	for i := 0; i < g.MaxRetries && taken(name); i++ {
		name = g.syllables(rng)
	}
	if !taken(name) {
		return name
	}

	for n := 2; ; n++ {
		candidate := name + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}

func (g Generator) syllables(rng *rand.Rand) string {
	lo, hi := g.MinLen, g.MaxLen
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	length := lo + rng.Intn(hi-lo+1)

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		if i%2 == 0 {
			b.WriteByte(consonants[rng.Intn(len(consonants))])
		} else {
			b.WriteByte(vowels[rng.Intn(len(vowels))])
		}
	}
	return strings.ToUpper(b.String())
}

// Set is a collection of names usable as the taken predicate.
type Set map[string]struct{}

// Add records a name.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Remove forgets a name.
func (s Set) Remove(name string) { delete(s, name) }

// Has reports whether name is present.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}
