package coro

import "time"

// YieldNow hands control to the next coroutine in round-robin order and
// blocks until this one is resumed. It is a no-op if this coroutine is the
// only one still live. YieldNow panics with ErrNoActiveRing if called
// outside of a running ring.
func YieldNow() {
	r := current.Load()
	if r == nil {
		panic(ErrNoActiveRing)
	}
	if len(r.queue) == 0 {
		return
	}
	r.current.strand.Yield()
}

// WaitUntil repeatedly yields until pred returns true, checking it again
// immediately after every resume. There is no subscription or notification
// mechanism; this is a busy-yield wait that spends a full round-robin turn
// per check.
func WaitUntil(pred func() bool) {
	for !pred() {
		YieldNow()
	}
}

// Wait yields until at least ms milliseconds have elapsed, measured by
// wall-clock time.
func Wait(ms int64) {
	deadline := time.Now().Add(time.Duration(ms) * time.Millisecond)
	WaitUntil(func() bool {
		return !time.Now().Before(deadline)
	})
}

// WaitOr waits until ms milliseconds have elapsed, or *continuing becomes
// false, or *canceling becomes true, whichever happens first, so a timed
// wait can be interrupted early by a flag flip from another coroutine.
// canceling may be nil, matching the original's optional third argument.
// It reports whether it returned because of one of the flags (true) or
// because the deadline passed (false).
func WaitOr(ms int64, continuing, canceling *bool) bool {
	deadline := time.Now().Add(time.Duration(ms) * time.Millisecond)
	woken := false
	WaitUntil(func() bool {
		if continuing != nil && !*continuing {
			woken = true
			return true
		}
		if canceling != nil && *canceling {
			woken = true
			return true
		}
		return !time.Now().Before(deadline)
	})
	return woken
}

// SleepMs is an alias for Wait. A thread-blocking sleep would stall this
// ring's only OS thread exactly as a cooperative wait does, so the two
// collapse into one primitive here.
func SleepMs(ms int64) {
	Wait(ms)
}
