package geo

import (
	"context"
	"math/rand"
	"testing"
)

func TestStub_SamplesFromFixedCandidates(t *testing.T) {
	stub := NewStub(rand.New(rand.NewSource(42)))
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		loc := stub.Locate(ctx, "203.0.113.7")

		found := false
		for _, candidate := range stubLocations {
			if loc == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Locate() = %+v, not in the candidate list", loc)
		}
	}
}

func TestStub_DeterministicWithSeed(t *testing.T) {
	ctx := context.Background()
	a := NewStub(rand.New(rand.NewSource(7)))
	b := NewStub(rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		if a.Locate(ctx, "") != b.Locate(ctx, "") {
			t.Fatal("same seed produced different sequences")
		}
	}
}

func TestStub_CoversAllCandidates(t *testing.T) {
	stub := NewStub(rand.New(rand.NewSource(1)))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[stub.Locate(ctx, "").City] = true
	}

	if len(seen) != len(stubLocations) {
		t.Errorf("saw %d distinct cities over 1000 draws, want %d", len(seen), len(stubLocations))
	}
}
