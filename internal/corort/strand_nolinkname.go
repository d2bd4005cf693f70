//go:build !corort_linkname

package corort

// Strand is the goroutine-and-channel implementation of the same contract
// strand_linkname.go provides with the runtime's own coroutine primitive. It
// is the default build: it needs no linkname and works with every Go
// toolchain, at the cost of a real second goroutine per live coroutine.
//
// The channel handoff is what a native implementation gets from copying
// registers and a stack frame: exactly one side runs at a time, and the
// unbuffered send/receive pair gives the memory-visibility guarantee that a
// suspended coroutine's writes are visible after it resumes.
type Strand struct {
	turn chan struct{}
}

// Start runs body in a new goroutine, blocking until it reaches its first
// Yield or Finish.
//
//go:norace
func (s *Strand) Start(body func()) {
	s.turn = make(chan struct{})
	go func() {
		body()
		panic("corort: strand body returned without calling Finish")
	}()
	<-s.turn
}

// Resume continues a previously suspended strand until its next Yield or
// Finish.
//
//go:norace
func (s *Strand) Resume() {
	s.turn <- struct{}{}
	<-s.turn
}

// Yield must be called from inside the strand's body; it hands control back
// to whoever called Start or Resume.
//
//go:norace
func (s *Strand) Yield() {
	s.turn <- struct{}{}
	<-s.turn
}

// Finish must be called from inside the strand's body in place of returning.
// It hands control back permanently; the goroutine backing the strand then
// blocks forever, so deferred calls still on its stack never run, matching
// the termination trampoline's "no unwind, just reclaim the slot" semantics.
//
//go:norace
func (s *Strand) Finish() {
	s.turn <- struct{}{}
	select {}
}
