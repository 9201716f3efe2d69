// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package soctest provides utility functions for testing peripherals.
//
package soctest

import (
	"testing"

	"github.com/db47h/socsim"
)

// A DiagRecorder collects diagnostics for later inspection.
//
type DiagRecorder struct {
	Diags []socsim.Diag
}

// Func returns the recorder as a DiagFunc.
//
func (r *DiagRecorder) Func() socsim.DiagFunc {
	return func(d socsim.Diag) { r.Diags = append(r.Diags, d) }
}

// An IRQRecorder is a Line that records every level transition it receives.
// A pulse shows up as the two transitions [true, false].
//
type IRQRecorder struct {
	Levels []bool
}

// Line returns the recorder as a Line.
//
func (r *IRQRecorder) Line() socsim.Line {
	return func(level bool) { r.Levels = append(r.Levels, level) }
}

// Pulses returns the number of raise-then-lower pairs recorded.
//
func (r *IRQRecorder) Pulses() int {
	n := 0
	for i := 0; i+1 < len(r.Levels); i += 2 {
		if r.Levels[i] && !r.Levels[i+1] {
			n++
		}
	}
	return n
}

// Reset clears the recorded transitions.
//
func (r *IRQRecorder) Reset() {
	r.Levels = r.Levels[:0]
}

// CheckResetValues resets p and verifies that every offset in want reads
// back its declared reset value.
//
func CheckResetValues(t *testing.T, p socsim.Peripheral, want map[uint32]uint32) {
	t.Helper()
	p.Reset()
	for off, v := range want {
		if got := p.Read(off, 4); got != v {
			t.Errorf("offset 0x%02x: got 0x%08x, want reset value 0x%08x", off, got, v)
		}
	}
}

// CheckUnknownOffset verifies the defined behavior of an access to an
// in-window offset backed by no register: the read returns 0, the write is
// dropped, and each access emits exactly one diagnostic. rec must be the
// recorder p was built with.
//
func CheckUnknownOffset(t *testing.T, p socsim.Peripheral, off uint32, rec *DiagRecorder) {
	t.Helper()
	n := len(rec.Diags)
	if got := p.Read(off, 4); got != 0 {
		t.Errorf("read of unknown offset 0x%02x: got 0x%08x, want 0", off, got)
	}
	if len(rec.Diags) != n+1 {
		t.Errorf("read of unknown offset 0x%02x: got %d diagnostics, want 1", off, len(rec.Diags)-n)
	} else if d := rec.Diags[n]; d.Offset != off || d.Kind != socsim.DiagUnknownRead {
		t.Errorf("read of unknown offset 0x%02x: unexpected diagnostic %+v", off, d)
	}
	n = len(rec.Diags)
	p.Write(off, 4, 0xDEADBEEF)
	if len(rec.Diags) != n+1 {
		t.Errorf("write to unknown offset 0x%02x: got %d diagnostics, want 1", off, len(rec.Diags)-n)
	} else if d := rec.Diags[n]; d.Offset != off || d.Kind != socsim.DiagUnknownWrite {
		t.Errorf("write to unknown offset 0x%02x: unexpected diagnostic %+v", off, d)
	}
}
