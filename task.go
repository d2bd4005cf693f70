package coro

import (
	"github.com/cwrcampbell/coro/internal/corort"
	"github.com/cwrcampbell/coro/internal/csa"
)

// Entry is a coroutine body. Its arguments are the int64 words supplied to
// StartRing or Insert, in the order given.
type Entry func(args []int64)

// Coroutine pairs an Entry with the argument words it should be started
// with, for use with StartRing.
type Coroutine struct {
	Fn   Entry
	Args []int64
}

// New is a convenience constructor for a Coroutine, for callers who would
// rather not build the struct literal by hand.
func New(fn Entry, args ...int64) Coroutine {
	return Coroutine{Fn: fn, Args: args}
}

// task is one coroutine's bookkeeping: its entry point and arguments, the
// Strand that actually holds its suspended execution, and the CSA trailer
// word describing its current footprint in the arena.
type task struct {
	id      int
	fn      Entry
	args    []int64
	strand  corort.Strand
	started bool
	done    bool

	// trailer is the CSA trailer word this task currently has reserved:
	// set when it is queued but not running, cleared (conceptually) while
	// it is the one executing.
	trailer int64
}

// reserve pushes this task's current frame into the arena as csa.Push would
// for a just-encoded or just-suspended entry, recording the resulting
// trailer. firstRun should be true only the first time this is called for a
// given task.
func (t *task) reserve(a *csa.Arena, abi csa.ABI, firstRun bool) error {
	e, err := csa.NewEntry(abi, len(t.args), firstRun)
	if err != nil {
		return err
	}
	trailer, err := csa.Push(a, e)
	if err != nil {
		return err
	}
	t.trailer = trailer
	return nil
}

// release pops this task's current frame back out of the arena, as happens
// the moment the scheduler resumes it.
func (t *task) release(a *csa.Arena) {
	csa.Pop(a, t.trailer)
	t.trailer = 0
}
