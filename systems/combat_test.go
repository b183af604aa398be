package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Jinkieyz/lajfi/components"
)

func testCombat() Combat {
	return Combat{Range: 3, AttackCost: 8, KillGain: 0.7}
}

func TestStrength(t *testing.T) {
	v := components.Vitals{Alive: true, Energy: 40}
	if got := Strength(&v, testGenome(3, 5)); got != 20+15+10 {
		t.Errorf("Strength = %v, want 45", got)
	}
}

func TestAttack_StrongAttackerAlwaysWins(t *testing.T) {
	c := testCombat()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		att := components.Vitals{Alive: true, Energy: 200}
		def := components.Vitals{Alive: true, Energy: 10}

		gain, won := c.Attack(&att, testGenome(3, 5), &def, testGenome(2, 2), rng)
		if !won {
			t.Fatalf("trial %d: overwhelming attacker lost", i)
		}
		if math.Abs(gain-7) > 1e-9 {
			t.Fatalf("gain = %v, want 7", gain)
		}
		if att.Energy != 200-8+7 {
			t.Fatalf("attacker energy = %v, want 199", att.Energy)
		}
		if def.Alive || def.Energy != 0 {
			t.Fatalf("victim = %+v, want dead with no energy", def)
		}
	}
}

func TestAttack_WeakAttackerAlwaysLoses(t *testing.T) {
	c := testCombat()
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		att := components.Vitals{Alive: true, Energy: 5}
		def := components.Vitals{Alive: true, Energy: 200}

		gain, won := c.Attack(&att, testGenome(2, 2), &def, testGenome(2, 2), rng)
		if won || gain != 0 {
			t.Fatalf("trial %d: hopeless attacker won %v", i, gain)
		}
		if att.Energy != 0 {
			t.Fatalf("attacker energy = %v, want cost clamped at 0", att.Energy)
		}
		if !att.Alive || !def.Alive || def.Energy != 200 {
			t.Fatalf("lost fight changed liveness: att=%+v def=%+v", att, def)
		}
	}
}

func TestAttack_EvenFightIsCoinFlip(t *testing.T) {
	c := Combat{Range: 3}
	rng := rand.New(rand.NewSource(3))
	const trials = 4000
	wins := 0
	for i := 0; i < trials; i++ {
		att := components.Vitals{Alive: true, Energy: 50}
		def := components.Vitals{Alive: true, Energy: 50}
		if _, won := c.Attack(&att, testGenome(2, 3), &def, testGenome(2, 3), rng); won {
			wins++
		}
	}
	if frac := float64(wins) / trials; math.Abs(frac-0.5) > 0.05 {
		t.Errorf("win rate = %.3f, want about 0.5", frac)
	}
}

func TestAttack_DrawsTwoValues(t *testing.T) {
	c := testCombat()
	rng := rand.New(rand.NewSource(4))
	ref := rand.New(rand.NewSource(4))

	att := components.Vitals{Alive: true, Energy: 50}
	def := components.Vitals{Alive: true, Energy: 50}
	c.Attack(&att, testGenome(2, 2), &def, testGenome(2, 2), rng)

	ref.Float64()
	ref.Float64()
	if rng.Int63() != ref.Int63() {
		t.Error("Attack did not consume exactly two draws")
	}
}

func TestProvoked(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		if Provoked(0, rng) {
			t.Fatal("aggression 0 provoked a fight")
		}
		if !Provoked(1, rng) {
			t.Fatal("aggression 1 held back")
		}
	}

	const trials = 4000
	n := 0
	for i := 0; i < trials; i++ {
		if Provoked(0.25, rng) {
			n++
		}
	}
	if frac := float64(n) / trials; math.Abs(frac-0.25) > 0.04 {
		t.Errorf("provoked rate = %.3f, want about 0.25", frac)
	}
}

func TestCombat_Range(t *testing.T) {
	c := testCombat()
	if !c.Enabled() || !c.InRange(9) || c.InRange(9.01) {
		t.Errorf("range 3: enabled=%v in(9)=%v in(9.01)=%v", c.Enabled(), c.InRange(9), c.InRange(9.01))
	}
	if (Combat{}).Enabled() {
		t.Error("zero range should disable combat")
	}
}
