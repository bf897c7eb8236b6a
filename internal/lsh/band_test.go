package lsh

import (
	"math"
	"testing"

	"github.com/neardedup/neardedup/internal/minhash"
)

func TestNewBanderRejectsZero(t *testing.T) {
	if _, err := NewBander(0, 5, 0); err == nil {
		t.Error("expected error for b=0")
	}
	if _, err := NewBander(10, 0, 0); err == nil {
		t.Error("expected error for r=0")
	}
}

func TestBandsEmitsExactlyB(t *testing.T) {
	bd, err := NewBander(10, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	sig := make(minhash.Signature, 50)
	keys, err := bd.Bands(sig)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 10 {
		t.Errorf("expected 10 band keys, got %d", len(keys))
	}
}

func TestBandsMultiProbeCount(t *testing.T) {
	probes := 2
	bd, err := NewBander(10, 5, probes)
	if err != nil {
		t.Fatal(err)
	}
	sig := make(minhash.Signature, 50)
	keys, err := bd.Bands(sig)
	if err != nil {
		t.Fatal(err)
	}
	want := 10 * (1 + 2*probes)
	if len(keys) != want {
		t.Errorf("expected %d band keys with probes=%d, got %d", want, probes, len(keys))
	}
}

func TestBandsRejectsWrongLength(t *testing.T) {
	bd, err := NewBander(10, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bd.Bands(make(minhash.Signature, 49)); err == nil {
		t.Error("expected error for signature length != B*R")
	}
}

func TestProbabilityMonotonicIncreasing(t *testing.T) {
	b, r := 10, 5
	prev := Probability(0, b, r)
	for j := 0.01; j <= 1.0; j += 0.01 {
		cur := Probability(j, b, r)
		if cur < prev-1e-9 {
			t.Fatalf("S-curve not monotonic at J=%.2f: prev=%v cur=%v", j, prev, cur)
		}
		prev = cur
	}
}

func TestProbabilityMatchesFormula(t *testing.T) {
	b, r := 20, 5
	j := 0.3
	want := 1 - math.Pow(1-math.Pow(j, float64(r)), float64(b))
	got := Probability(j, b, r)
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("Probability(%v,%d,%d) = %v, want %v", j, b, r, got, want)
	}
}

func TestMultiProbeSuperset(t *testing.T) {
	sig := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
		21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40,
		41, 42, 43, 44, 45, 46, 47, 48, 49, 50}

	bd0, _ := NewBander(10, 5, 0)
	base, _ := bd0.Bands(sig)

	bd2, _ := NewBander(10, 5, 2)
	probed, _ := bd2.Bands(sig)

	probedSet := make(map[BandKey]struct{}, len(probed))
	for _, k := range probed {
		probedSet[k] = struct{}{}
	}
	for _, k := range base {
		if _, ok := probedSet[k]; !ok {
			t.Errorf("base key %v missing from multi-probe superset", k)
		}
	}
}
