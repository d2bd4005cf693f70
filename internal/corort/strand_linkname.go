//go:build corort_linkname

package corort

import "unsafe" // required for go:linkname, and for the race-annotation pointers below

// strand is the opaque handle the Go runtime hands back for a coroutine
// created with newcoro. Its fields are never touched directly; it only ever
// flows through coroswitch/coroexit.
type strand struct{}

// These three functions back the language's own coroutine support (the
// primitive that also powers iter.Pull). They give a single goroutine two
// independently resumable program counters without allocating a second
// goroutine, which is the closest thing the runtime offers to the
// pop/cleanup trampoline pair described for a native stack switch.
//
//go:linkname newcoro runtime.newcoro
func newcoro(func(*strand)) *strand

//go:linkname coroswitch runtime.coroswitch
func coroswitch(*strand)

//go:linkname coroexit runtime.coroexit
func coroexit(*strand)

// Strand is one coroutine's half of the context switch: the thing that gets
// suspended and resumed. It is the runtime-coroutine-backed implementation of
// the same contract strand_nolinkname.go provides with a goroutine and a
// channel. Calling Resume transfers control into the strand's body until it
// next calls Yield or Finish.
type Strand struct {
	strand *strand
}

// Start runs body on the strand for the first time, up to its first Yield or
// Finish. It is the pop trampoline's first-run path: instead of marshalling
// arguments into ABI registers, body is a closure that already carries its
// arguments, so there is nothing left to load.
//
//go:norace
func (s *Strand) Start(body func()) {
	s.strand = newcoro(func(*strand) {
		acquire(unsafe.Pointer(s))
		body()
		panic("corort: strand body returned without calling Finish")
	})
	release(unsafe.Pointer(s))
	coroswitch(s.strand)
	acquire(unsafe.Pointer(s))
}

// Resume continues a previously suspended strand. It is the pop trampoline's
// resume path, equivalent to reloading the saved frame from the CSA and
// falling into the compiler epilogue.
//
//go:norace
func (s *Strand) Resume() {
	release(unsafe.Pointer(s))
	coroswitch(s.strand)
	acquire(unsafe.Pointer(s))
}

// Yield must be called from inside the strand's body. It is the context
// switch: control returns to whoever called Start or Resume.
//
//go:norace
func (s *Strand) Yield() {
	release(unsafe.Pointer(s))
	coroswitch(s.strand)
	acquire(unsafe.Pointer(s))
}

// Finish must be called from inside the strand's body in place of returning.
// It is the termination trampoline: the strand is torn down and control
// returns to the caller of Start or Resume, exactly as if the coroutine's own
// ret had landed in cleanup.
//
//go:norace
func (s *Strand) Finish() {
	release(unsafe.Pointer(s))
	coroexit(s.strand)
	panic("corort: unreachable after Finish")
}
