package blockdev

import (
	"math/rand"
)

// FaultKind selects which operations a FaultDevice is currently allowed to
// corrupt.
type FaultKind uint8

const (
	FaultWrite FaultKind = 1 << iota
	FaultRead
)

// FaultDevice wraps a Device and injects failures on a countdown: the first
// Period calls to an armed operation succeed normally, and the call after
// that fails. A write failure is not simply rejected — it is torn: a random
// prefix of the bytes is applied correctly and the remainder is corrupted
// by ANDing with random masks, simulating a sector write that lost power
// partway through. A read failure returns only half the requested bytes
// and reports an error, simulating a read racing a power-loss event.
//
// FaultDevice is not safe for concurrent use (neither is the filesystem it
// backs).
type FaultDevice struct {
	under  Device
	rng    *rand.Rand
	armed  bool
	kind   FaultKind
	period uint32
}

// NewFaultDevice wraps under with fault injection driven by rng. Pass a
// seeded *rand.Rand for reproducible crash-test runs.
func NewFaultDevice(under Device, rng *rand.Rand) *FaultDevice {
	return &FaultDevice{under: under, rng: rng}
}

// Arm enables fault injection for the given kind(s), taking the next
// `period` matching calls before the following one fails. A period of 0
// means the very next call fails.
func (d *FaultDevice) Arm(kind FaultKind, period uint32) {
	d.armed = true
	d.kind = kind
	d.period = period
}

// Disarm stops fault injection (used to simulate "power restored" between
// the crash and the next mount attempt).
func (d *FaultDevice) Disarm() {
	d.armed = false
}

func (d *FaultDevice) shouldFail(kind FaultKind) bool {
	if !d.armed || d.kind&kind == 0 {
		return false
	}
	if d.period != 0 {
		d.period--
		return false
	}
	return true
}

func (d *FaultDevice) ReadAt(addr uint32, p []byte) error {
	if d.shouldFail(FaultRead) {
		half := len(p) / 2
		full := make([]byte, len(p))
		if err := d.under.ReadAt(addr, full); err != nil {
			return err
		}
		copy(p, full[:half])
		return errShortIO
	}
	return d.under.ReadAt(addr, p)
}

func (d *FaultDevice) WriteAt(addr uint32, p []byte) error {
	if d.shouldFail(FaultWrite) {
		failLen := 0
		if len(p) > 0 {
			failLen = d.rng.Intn(len(p))
		}
		if failLen == 0 {
			// Whole-sector tear: every byte survives only through a random mask.
			garbled := make([]byte, len(p))
			if err := d.under.ReadAt(addr, garbled); err != nil {
				// Device has no prior contents (e.g. never written); start from
				// the caller's bytes so the mask still produces a torn result.
				copy(garbled, p)
			}
			for i := range garbled {
				garbled[i] &= byte(d.rng.Intn(0xFF))
			}
			if err := d.under.WriteAt(addr, garbled); err != nil {
				return err
			}
			return errShortIO
		}
		torn := make([]byte, len(p))
		copy(torn, p[:failLen])
		for i := failLen; i < len(p); i++ {
			torn[i] = p[i] & byte(d.rng.Intn(0xFF))
		}
		if err := d.under.WriteAt(addr, torn); err != nil {
			return err
		}
		return errShortIO
	}
	return d.under.WriteAt(addr, p)
}

type shortIOError struct{}

func (shortIOError) Error() string { return "blockdev: simulated power loss" }

var errShortIO = shortIOError{}
