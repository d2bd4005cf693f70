package coro

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/cwrcampbell/coro/internal/csa"
)

// insideRing guards against starting a second ring on the same process:
// there is exactly one CSA and one cursor per process, so nesting rings
// would corrupt both.
var insideRing atomic.Bool

// current points at the ring actively running on this process, or nil. It
// exists so YieldNow, WaitUntil, and friends can find the caller's ring
// without it being threaded through every Entry's signature.
var current atomic.Pointer[ring]

// ring is the round-robin scheduler: a FIFO queue of tasks, a CSA-backed
// arena tracking each suspended task's reserved frame, and the ABI the
// caller wants frame sizes computed against.
type ring struct {
	abi   csa.ABI
	arena *csa.Arena
	log   *slog.Logger

	queue   []*task
	current *task
	turn    int64
	nextID  int
}

// StartRing runs coroutines to completion in strict round-robin order: the
// coroutine waiting longest always runs next. StartRing returns once every
// coroutine has returned from its Entry, or immediately with ErrNestedRing
// if a ring is already running on this process.
func StartRing(coros ...Coroutine) error {
	return StartRingABI(csa.HostABI(), coros...)
}

// StartRingABI is StartRing with an explicit ABI, for computing CSA frame
// layouts as if running under a host other than the current one.
func StartRingABI(abi csa.ABI, coros ...Coroutine) error {
	if !insideRing.CompareAndSwap(false, true) {
		return ErrNestedRing
	}
	defer insideRing.Store(false)

	r := &ring{
		abi:   abi,
		arena: csa.NewArena(),
	}
	r.log = newLogger(r)
	current.Store(r)
	defer current.Store(nil)

	for _, c := range coros {
		if err := r.insert(c); err != nil {
			return err
		}
	}

	return r.run()
}

// Insert adds a coroutine to the currently running ring. It is meant to be
// called from within a running coroutine (incremental insertion); the new
// coroutine is appended to the back of the queue and runs once every
// coroutine ahead of it has had its turn. Insert returns ErrNoActiveRing if
// no ring is running.
func Insert(c Coroutine) error {
	r := current.Load()
	if r == nil {
		return ErrNoActiveRing
	}
	return r.insert(c)
}

// LiveCount reports how many coroutines in the active ring have not yet
// returned, including the one calling LiveCount. It returns 0 if no ring is
// running.
func LiveCount() int {
	r := current.Load()
	if r == nil {
		return 0
	}
	n := len(r.queue)
	if r.current != nil {
		n++
	}
	return n
}

func (r *ring) insert(c Coroutine) error {
	t := &task{
		id:   r.nextID,
		fn:   c.Fn,
		args: c.Args,
	}
	r.nextID++

	if len(t.args) > csa.MaxArgs {
		return ErrTooManyArgs
	}

	if err := t.reserve(r.arena, r.abi, true); err != nil {
		if errors.Is(err, csa.ErrOverflow) {
			return ErrArenaExhausted
		}
		return err
	}
	r.log.Debug("coro: inserted", slog.Int("task", t.id), slog.Int("args", len(t.args)))
	r.queue = append(r.queue, t)
	return nil
}

// run is the driver trampoline: pop the front of the queue, pull its frame
// back out of the arena, hand it control, and either retire it or push it
// back onto the queue depending on whether it returned or yielded. It
// returns ErrArenaExhausted if a yielded task can no longer be re-reserved.
func (r *ring) run() error {
	for len(r.queue) > 0 {
		t := r.queue[0]
		r.queue = r.queue[1:]

		t.release(r.arena)
		r.current = t
		r.turn++

		if !t.started {
			t.started = true
			args := t.args
			fn := t.fn
			t.strand.Start(func() {
				fn(args)
				t.done = true
				t.strand.Finish()
			})
		} else {
			t.strand.Resume()
		}

		r.current = nil

		if t.done {
			r.log.Debug("coro: task returned", slog.Int("task", t.id), slog.Int64("turn", r.turn))
			continue
		}

		if err := t.reserve(r.arena, r.abi, false); err != nil {
			// The arena is shared by every task in this ring; a reservation
			// that worked moments ago failing here means Insert calls made
			// during this task's turn used up the capacity. There is no
			// sensible way to keep running, so the ring stops dead.
			if errors.Is(err, csa.ErrOverflow) {
				err = ErrArenaExhausted
			}
			r.log.Error("coro: arena exhausted mid-run", slog.Int("task", t.id), slog.Any("err", err))
			return err
		}
		r.queue = append(r.queue, t)
	}
	return nil
}
