package sand

import "testing"

func TestBagFairness(t *testing.T) {
	// Any 7 draws taken from a refill boundary are a permutation of all 7
	// kinds. A fresh bag starts at a boundary; subsequent boundaries occur
	// every 7 draws.
	b := NewBag(0x12345678)
	for window := 0; window < 20; window++ {
		seen := map[Kind]bool{}
		for i := 0; i < 7; i++ {
			k := b.Next()
			if seen[k] {
				t.Fatalf("window %d: kind %v repeated", window, k)
			}
			seen[k] = true
		}
		if len(seen) != 7 {
			t.Fatalf("window %d: only %d distinct kinds", window, len(seen))
		}
	}
}

func TestBagDeterminism(t *testing.T) {
	a := NewBag(42)
	b := NewBag(42)
	for i := 0; i < 100; i++ {
		if ka, kb := a.Next(), b.Next(); ka != kb {
			t.Fatalf("draw %d: %v != %v for equal seeds", i, ka, kb)
		}
	}
}

func TestBagSeedsDiffer(t *testing.T) {
	a := NewBag(1)
	b := NewBag(2)
	same := true
	for i := 0; i < 21; i++ {
		if a.Next() != b.Next() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical 21-draw sequences")
	}
}

func TestBagNeverRunsDry(t *testing.T) {
	b := NewBag(7)
	for i := 0; i < 1000; i++ {
		b.Next()
		if len(b.queue) < 1 {
			t.Fatalf("draw %d: queue exhausted", i)
		}
	}
}
