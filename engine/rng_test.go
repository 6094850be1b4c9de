package engine

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Roll(6)
		b := rng2.Roll(6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(6)
		if r < 1 || r > 6 {
			t.Fatalf("roll out of range [1,6]: got %d", r)
		}
	}
}

func TestRNG_Roll_OneSided(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if r := rng.Roll(1); r != 1 {
			t.Fatalf("1-sided die should always be 1, got %d", r)
		}
	}
}

func TestRNG_Between_Inclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		lo := rapid.IntRange(-20, 20).Draw(t, "lo")
		width := rapid.IntRange(0, 10).Draw(t, "width")
		hi := lo + width

		rng := NewRNG(seed)
		for i := 0; i < 50; i++ {
			v := rng.Between(lo, hi)
			if v < lo || v > hi {
				t.Fatalf("Between(%d, %d) = %d", lo, hi, v)
			}
		}
	})
}

func TestRNG_Between_HitsBothEnds(t *testing.T) {
	rng := NewRNG(7)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		seen[rng.Between(11, 15)] = true
	}
	for v := 11; v <= 15; v++ {
		if !seen[v] {
			t.Errorf("value %d never produced", v)
		}
	}
}

func TestRNG_Between_Degenerate(t *testing.T) {
	rng := NewRNG(3)
	if v := rng.Between(4, 4); v != 4 {
		t.Errorf("Between(4, 4) = %d", v)
	}
	if v := rng.Between(9, 2); v != 9 {
		t.Errorf("Between(9, 2) = %d, want lo", v)
	}
}

func TestRNG_Pick_Uniform(t *testing.T) {
	rng := NewRNG(12345)
	counts := [4]int{}

	const trials = 8000
	for i := 0; i < trials; i++ {
		counts[rng.Pick(4)]++
	}

	// Each bucket should be within 20% of its fair share.
	for i, c := range counts {
		if c < trials/4*8/10 || c > trials/4*12/10 {
			t.Errorf("bucket %d: count %d outside tolerance", i, c)
		}
	}
}

func TestRNG_Chance(t *testing.T) {
	rng := NewRNG(2024)

	const trials = 10000
	hits := 0
	for i := 0; i < trials; i++ {
		if rng.Chance(0.4) {
			hits++
		}
	}
	ratio := float64(hits) / trials
	if math.Abs(ratio-0.4) > 0.03 {
		t.Errorf("Chance(0.4) ratio = %.3f", ratio)
	}

	for i := 0; i < 100; i++ {
		if rng.Chance(0) {
			t.Fatal("Chance(0) should never succeed")
		}
		if !rng.Chance(1) {
			t.Fatal("Chance(1) should always succeed")
		}
	}
}

func TestRNG_Position(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Errorf("initial position should be 0, got %d", rng.Position())
	}

	rng.Roll(6)
	rng.Float64()
	rng.Between(1, 3)
	rng.Chance(0.5)
	rng.Pick(2)

	if rng.Position() != 5 {
		t.Errorf("expected position 5, got %d", rng.Position())
	}
	if rng.Seed() != 42 {
		t.Errorf("seed = %d, want 42", rng.Seed())
	}
}

func TestRestoreRNG(t *testing.T) {
	original := NewRNG(42)
	for i := 0; i < 10; i++ {
		original.Roll(6)
		original.Float64()
	}

	restored := RestoreRNG(42, original.Position())
	if restored.Position() != original.Position() {
		t.Fatalf("position mismatch: %d vs %d", restored.Position(), original.Position())
	}

	for i := 0; i < 20; i++ {
		a := original.Between(1, 100)
		b := restored.Between(1, 100)
		if a != b {
			t.Fatalf("draw %d after restore: %d vs %d", i, a, b)
		}
		if original.Chance(0.5) != restored.Chance(0.5) {
			t.Fatalf("chance %d after restore differs", i)
		}
	}
}
