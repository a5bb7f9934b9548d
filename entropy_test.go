package microshard

import (
	"testing"
)

// TestEntropyReference verifies the output stream against the reference
// xoshiro256** implementation for a splitmix64-expanded seed.
func TestEntropyReference(t *testing.T) {
	// State expansion: splitmix64 over seed=1 yields a known state; the
	// first output is rotl(s[1]*5, 7) * 9 before any state advance.
	var e Entropy
	e.Seed(1)

	seed := uint64(1)
	var s [4]uint64
	for i := range s {
		s[i] = splitmix64(&seed)
	}
	want := rotl(s[1]*5, 7) * 9

	if got := e.Next64(); got != want {
		t.Errorf("Next64() = %#x, want %#x", got, want)
	}
}

func TestEntropyDeterministic(t *testing.T) {
	var a, b Entropy
	a.Seed(42)
	b.Seed(42)

	for i := 0; i < 1000; i++ {
		if av, bv := a.Next64(), b.Next64(); av != bv {
			t.Fatalf("streams diverged at step %d: %#x != %#x", i, av, bv)
		}
	}
}

func TestEntropySeedsDiffer(t *testing.T) {
	var a, b Entropy
	a.Seed(1)
	b.Seed(2)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Next64() == b.Next64() {
			same++
		}
	}
	if same > 1 {
		t.Errorf("streams from different seeds matched %d/100 times", same)
	}
}

func TestEntropyLazySeeding(t *testing.T) {
	// The zero value self-seeds on first use and two fresh states do not
	// produce the same stream.
	var a, b Entropy
	if a.Next64() == b.Next64() && a.Next64() == b.Next64() {
		t.Error("two zero-value Entropy states produced identical output")
	}
}

func TestNext36Width(t *testing.T) {
	var e Entropy
	e.Seed(7)

	var accum uint64
	for i := 0; i < 10000; i++ {
		v := e.Next36()
		if v > MaxRandom {
			t.Fatalf("Next36() = %#x exceeds 36 bits", v)
		}
		accum |= v
	}
	// Over ten thousand draws every one of the 36 bits should have been
	// set at least once.
	if accum != MaxRandom {
		t.Errorf("bit coverage = %#x, want %#x", accum, MaxRandom)
	}
}

func TestEntropyNonDegenerate(t *testing.T) {
	// A crude distribution check: no value repeats within a short window,
	// and consecutive outputs are not equal.
	var e Entropy
	e.Seed(99)

	seen := make(map[uint64]bool, 4096)
	for i := 0; i < 4096; i++ {
		v := e.Next64()
		if seen[v] {
			t.Fatalf("64-bit output repeated within 4096 draws: %#x", v)
		}
		seen[v] = true
	}
}

func TestSplitmix64Reference(t *testing.T) {
	// Reference vector: splitmix64 starting from 0 produces this
	// well-known first output.
	x := uint64(0)
	if got := splitmix64(&x); got != 0xe220a8397b1dcdaf {
		t.Errorf("splitmix64(0) = %#x, want 0xe220a8397b1dcdaf", got)
	}
}

func TestPooledNext36(t *testing.T) {
	for i := 0; i < 100; i++ {
		if v := pooledNext36(); v > MaxRandom {
			t.Fatalf("pooledNext36() = %#x exceeds 36 bits", v)
		}
	}
}

func BenchmarkNext64(b *testing.B) {
	var e Entropy
	e.Seed(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Next64()
	}
}

func BenchmarkPooledNext36(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = pooledNext36()
		}
	})
}
