//go:build race

package corort

import (
	"runtime"
	"unsafe"
)

// acquire and release give the race detector the happens-before edge that
// coroswitch itself doesn't: crossing into or out of a strand via the
// runtime's own coroutine primitive moves no bytes through anything the
// detector instruments, so without these calls it sees two goroutines
// touching the same memory with no ordering between them.
func acquire(addr unsafe.Pointer) {
	runtime.RaceAcquire(addr)
}

func release(addr unsafe.Pointer) {
	runtime.RaceRelease(addr)
}
