package csa

import (
	"testing"

	"pgregory.net/rapid"
)

func TestArenaCursorDiscipline(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := NewArena()
		abi := rapid.SampledFrom([]ABI{SystemV, Win64}).Draw(t, "abi")

		n := rapid.IntRange(0, 50).Draw(t, "count")
		trailers := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			argCount := rapid.IntRange(0, MaxArgs).Draw(t, "argCount")
			e, err := NewEntry(abi, argCount, true)
			if err != nil {
				t.Fatal(err)
			}
			trailer, err := Push(a, e)
			if err != nil {
				t.Fatal(err)
			}
			trailers = append(trailers, trailer)
		}

		// Drain in reverse, LIFO, as the arena is a stack.
		for i := len(trailers) - 1; i >= 0; i-- {
			Pop(a, trailers[i])
		}

		if a.Cursor() != 0 {
			t.Fatalf("expected cursor 0 after draining %d entries, got %d", n, a.Cursor())
		}
	})
}

func TestArenaOverflow(t *testing.T) {
	a := NewArena()
	if err := a.Reserve(Capacity); err != nil {
		t.Fatalf("reserving exactly Capacity should succeed: %v", err)
	}
	if err := a.Reserve(1); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestArenaReleasePastZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic releasing past zero")
		}
	}()
	a := NewArena()
	a.Release(1)
}
