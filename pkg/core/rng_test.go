package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestSignOnlyPlusMinusOne(t *testing.T) {
	r := NewRNG(1)
	var ups, downs int
	for i := 0; i < 1000; i++ {
		switch r.Sign() {
		case 1:
			ups++
		case -1:
			downs++
		default:
			t.Fatal("Sign returned a value other than +1/-1")
		}
	}
	if ups == 0 || downs == 0 {
		t.Fatalf("expected both signs, got ups=%d downs=%d", ups, downs)
	}
}

func TestIntNNonPositive(t *testing.T) {
	r := NewRNG(1)
	if got := r.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, want 0", got)
	}
}

func TestSeedResetsSharedSource(t *testing.T) {
	r := NewRNG(3)
	src := r.Source()
	first := []int{src.IntN(1 << 20), src.IntN(1 << 20), src.IntN(1 << 20)}
	r.Seed(3)
	for i, want := range first {
		if got := src.IntN(1 << 20); got != want {
			t.Fatalf("draw %d after Seed = %d, want %d", i, got, want)
		}
	}
}
