package csa

import "errors"

// MaxArgs is the largest argument count an entry can carry. The trailer's
// first-run marker packs argCount into the low 7 bits of its top byte, so
// anything above 127 cannot be represented.
const MaxArgs = 127

// ErrTooManyArgs is returned when an entry is asked to carry more than
// MaxArgs arguments.
var ErrTooManyArgs = errors.New("csa: argument count exceeds 127")

// firstRunMarkerBit, set in the trailer's top byte, flags an entry that has
// never run: the next pop must marshal its arguments into registers.
const firstRunMarkerBit = 0x80

// sizeMask keeps the low 7 bytes of a trailer word, the slot count, distinct
// from the marker byte living in the 8th.
const sizeMask = 0x00ffffffffffffff

// Entry describes one coroutine's not-yet-executed or suspended frame: the
// ABI it was encoded for, how many arguments it carries, and whether it has
// ever run. Its slots, lowest to highest address, are:
//
//	[calleeSavedSlots...] [base] [entry addr] [cleanup addr] [shadow...] [args...] [filler...]
//
// Entry never allocates those slots' contents itself; it only answers how
// many slots the layout needs and what the trailer word should read.
type Entry struct {
	ABI      ABI
	ArgCount int
	FirstRun bool
}

// fillerCount is the alignment padding inserted so the stack pointer lands
// on a 16-byte boundary at the simulated call site: one filler slot when
// ArgCount is odd, two when it is zero (so a zero-argument call still gets
// its mandatory pair of filler words), zero otherwise. In every case
// ArgCount+fillerCount is even.
func (e Entry) fillerCount() int {
	switch {
	case e.ArgCount == 0:
		return 2
	case e.ArgCount%2 == 1:
		return 1
	default:
		return 0
	}
}

// headerSlots is the fixed three-word header every entry carries regardless
// of ABI: the saved base pointer, the coroutine's entry address, and the
// cleanup return address.
const headerSlots = 3

// Size returns the entry's footprint in slots, not counting the trailer word
// itself — the value masked into the trailer's low 7 bytes.
func (e Entry) Size() int {
	return e.ABI.calleeSavedSlots() + headerSlots + e.ABI.shadowSlots() + e.ArgCount + e.fillerCount()
}

// Trailer returns the trailer word for this entry: its Size, with the
// first-run marker (0x80|ArgCount) ORed into the top byte when FirstRun is
// set.
func (e Entry) Trailer() int64 {
	t := int64(e.Size())
	if e.FirstRun {
		t |= int64(firstRunMarkerBit|e.ArgCount) << 56
	}
	return t
}

// DecodeTrailer splits a trailer word back into the slot count it encodes
// and, if the first-run marker is set, the original argument count.
func DecodeTrailer(trailer int64) (size int, firstRun bool, argCount int) {
	marker := byte(trailer >> 56)
	size = int(trailer & sizeMask)
	if marker&firstRunMarkerBit != 0 {
		firstRun = true
		argCount = int(marker &^ firstRunMarkerBit)
	}
	return size, firstRun, argCount
}

// NewEntry validates argCount and returns the Entry describing a coroutine
// encoded for abi with that many arguments. firstRun should be true when
// encoding a coroutine that has not yet executed.
func NewEntry(abi ABI, argCount int, firstRun bool) (Entry, error) {
	if argCount < 0 || argCount > MaxArgs {
		return Entry{}, ErrTooManyArgs
	}
	return Entry{ABI: abi, ArgCount: argCount, FirstRun: firstRun}, nil
}

// Push reserves e's footprint (its Size plus one trailer slot) in a and
// returns the trailer word to record for it. It is the frame encoder's
// arena-accounting half; placing the coroutine's entry address and arguments
// into real memory, if a caller wants byte-literal fidelity for diagnostics,
// is a separate concern handled by the caller.
func Push(a *Arena, e Entry) (trailer int64, err error) {
	size := e.Size()
	if err := a.Reserve(size + 1); err != nil {
		return 0, err
	}
	return e.Trailer(), nil
}

// Pop releases the arena space a previously Push'd trailer reserved.
func Pop(a *Arena, trailer int64) {
	size, _, _ := DecodeTrailer(trailer)
	a.Release(size + 1)
}

// RegisterArgs reports how many of e's arguments the ABI would load into
// registers on a simulated first call, and how many would be left on the
// stack.
func (e Entry) RegisterArgs() (inRegisters int, onStack int) {
	n := e.ABI.registerArgs()
	if e.ArgCount <= n {
		return e.ArgCount, 0
	}
	return n, e.ArgCount - n
}
