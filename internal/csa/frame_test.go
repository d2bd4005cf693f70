package csa

import (
	"testing"

	"pgregory.net/rapid"
)

func TestTrailerRoundTrip(t *testing.T) {
	for _, abi := range []ABI{SystemV, Win64} {
		for argCount := 0; argCount <= MaxArgs; argCount++ {
			for _, firstRun := range []bool{true, false} {
				e, err := NewEntry(abi, argCount, firstRun)
				if err != nil {
					t.Fatalf("NewEntry(%v, %d, %v): %v", abi, argCount, firstRun, err)
				}
				trailer := e.Trailer()
				size, gotFirstRun, gotArgCount := DecodeTrailer(trailer)
				if size != e.Size() {
					t.Fatalf("abi=%v argCount=%d: size round-trip %d != %d", abi, argCount, size, e.Size())
				}
				if gotFirstRun != firstRun {
					t.Fatalf("abi=%v argCount=%d: firstRun round-trip %v != %v", abi, argCount, gotFirstRun, firstRun)
				}
				if firstRun && gotArgCount != argCount {
					t.Fatalf("abi=%v argCount=%d: argCount round-trip %d != %d", abi, argCount, gotArgCount, argCount)
				}
			}
		}
	}
}

func TestArgCountAboveLimitRejected(t *testing.T) {
	if _, err := NewEntry(SystemV, MaxArgs+1, true); err != ErrTooManyArgs {
		t.Fatalf("expected ErrTooManyArgs, got %v", err)
	}
	if _, err := NewEntry(SystemV, -1, true); err != ErrTooManyArgs {
		t.Fatalf("expected ErrTooManyArgs for negative argCount, got %v", err)
	}
}

// TestAlignmentInvariant checks a load-bearing claim about the encoding:
// argCount+fillerCount is always even, for every legal argCount.
func TestAlignmentInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		abi := rapid.SampledFrom([]ABI{SystemV, Win64}).Draw(t, "abi")
		argCount := rapid.IntRange(0, MaxArgs).Draw(t, "argCount")

		e, err := NewEntry(abi, argCount, rapid.Bool().Draw(t, "firstRun"))
		if err != nil {
			t.Fatal(err)
		}
		if (e.ArgCount+e.fillerCount())%2 != 0 {
			t.Fatalf("argCount=%d filler=%d: sum is odd", e.ArgCount, e.fillerCount())
		}
	})
}

func TestRegisterArgsSplit(t *testing.T) {
	e, err := NewEntry(SystemV, 9, true)
	if err != nil {
		t.Fatal(err)
	}
	inRegs, onStack := e.RegisterArgs()
	if inRegs != 6 || onStack != 3 {
		t.Fatalf("sum9 on SystemV: got inRegs=%d onStack=%d, want 6,3", inRegs, onStack)
	}

	e, err = NewEntry(Win64, 9, true)
	if err != nil {
		t.Fatal(err)
	}
	inRegs, onStack = e.RegisterArgs()
	if inRegs != 4 || onStack != 5 {
		t.Fatalf("sum9 on Win64: got inRegs=%d onStack=%d, want 4,5", inRegs, onStack)
	}
}
