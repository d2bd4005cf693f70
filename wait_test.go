package coro

import "testing"

// TestWaitOrWakesOnContinuingFalse covers the primary waitOr cancellation
// path: a peer flips continuing to false, and the waiter returns with
// woken == true well before its deadline.
func TestWaitOrWakesOnContinuingFalse(t *testing.T) {
	continuing := true
	var woken bool
	var peerTurns int

	peer := func(args []int64) {
		for peerTurns < 3 {
			peerTurns++
			YieldNow()
		}
		continuing = false
	}
	waiter := func(args []int64) {
		woken = WaitOr(60_000, &continuing, nil)
	}

	if err := StartRing(New(peer), New(waiter)); err != nil {
		t.Fatalf("StartRing: %v", err)
	}
	if !woken {
		t.Fatal("WaitOr returned woken=false, want true after continuing went false")
	}
}

// TestWaitOrWakesOnCanceling covers the secondary cancellation path: a peer
// sets canceling to true.
func TestWaitOrWakesOnCanceling(t *testing.T) {
	continuing := true
	canceling := false
	var woken bool
	var peerTurns int

	peer := func(args []int64) {
		for peerTurns < 3 {
			peerTurns++
			YieldNow()
		}
		canceling = true
	}
	waiter := func(args []int64) {
		woken = WaitOr(60_000, &continuing, &canceling)
	}

	if err := StartRing(New(peer), New(waiter)); err != nil {
		t.Fatalf("StartRing: %v", err)
	}
	if !woken {
		t.Fatal("WaitOr returned woken=false, want true after canceling went true")
	}
}

// TestWaitOrDeadline covers the non-cancelled path: with continuing always
// true and canceling nil, WaitOr only returns once its deadline passes, and
// reports woken == false.
func TestWaitOrDeadline(t *testing.T) {
	continuing := true
	var woken bool

	waiter := func(args []int64) {
		woken = WaitOr(1, &continuing, nil)
	}

	if err := StartRing(New(waiter)); err != nil {
		t.Fatalf("StartRing: %v", err)
	}
	if woken {
		t.Fatal("WaitOr returned woken=true, want false when only the deadline fired")
	}
}
