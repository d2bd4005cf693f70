package coro

import (
	"errors"
	"fmt"

	"github.com/cwrcampbell/coro/internal/csa"
)

// constErr makes a sentinel error safe to compare with errors.Is while still
// printing a normal message.
type constErr struct{ error }

func makeConstErr(err error) error {
	return constErr{error: err}
}

var (
	// ErrNestedRing is returned by StartRing when a ring is already running
	// on this process.
	ErrNestedRing = makeConstErr(errors.New("coro: a ring is already running on this process"))

	// ErrNoActiveRing is returned by Insert, and is the panic value YieldNow
	// raises, when called with no ring running.
	ErrNoActiveRing = makeConstErr(errors.New("coro: no ring is running"))

	// ErrTooManyArgs is returned when a coroutine is given more than
	// csa.MaxArgs arguments. The limit comes from the trailer's first-run
	// marker, which packs the argument count into 7 bits.
	ErrTooManyArgs = makeConstErr(fmt.Errorf("coro: argument count exceeds %d", csa.MaxArgs))

	// ErrArenaExhausted is returned when the coroutine storage area cannot
	// hold another entry, rather than silently overrunning it.
	ErrArenaExhausted = makeConstErr(errors.New("coro: coroutine storage area exhausted"))
)
