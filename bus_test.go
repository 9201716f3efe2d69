package socsim_test

import (
	"testing"

	"github.com/db47h/socsim"
	"github.com/db47h/socsim/soctest"
)

func newTestFile(t *testing.T, name string, rec *soctest.DiagRecorder) *socsim.RegFile {
	t.Helper()
	f, err := socsim.NewRegFile(name, rec.Func(), []socsim.Reg{
		{Name: "R0", Offset: 0x00, Reset: 0x11},
		{Name: "R1", Offset: 0x04, Reset: 0x22},
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestBus_dispatch(t *testing.T) {
	var rec soctest.DiagRecorder
	b := socsim.NewBus(rec.Func())
	p0 := newTestFile(t, "P0", &rec)
	p1 := newTestFile(t, "P1", &rec)
	if err := b.Map("P0", 0x40000000, 0x400, p0); err != nil {
		t.Fatal(err)
	}
	if err := b.Map("P1", 0x40000400, 0x400, p1); err != nil {
		t.Fatal(err)
	}

	// window-relative decode, last and first byte of each window
	b.Write(0x40000000, 4, 0xAA)
	b.Write(0x40000404, 4, 0xBB)
	if got := p0.Get("R0"); got != 0xAA {
		t.Errorf("P0.R0 = %#x, want 0xAA", got)
	}
	if got := p1.Get("R1"); got != 0xBB {
		t.Errorf("P1.R1 = %#x, want 0xBB", got)
	}
	if got := b.Read(0x40000004, 4); got != 0x22 {
		t.Errorf("read P0.R1 = %#x, want 0x22", got)
	}
	if got := b.Read(0x40000400, 4); got != 0x11 {
		t.Errorf("read P1.R0 = %#x, want 0x11", got)
	}
}

func TestBus_unmapped(t *testing.T) {
	var rec soctest.DiagRecorder
	b := socsim.NewBus(rec.Func())
	p := newTestFile(t, "P0", &rec)
	if err := b.Map("P0", 0x40000000, 0x400, p); err != nil {
		t.Fatal(err)
	}

	if got := b.Read(0x50000000, 4); got != 0 {
		t.Errorf("unmapped read = %#x, want 0", got)
	}
	b.Write(0x3FFFFFFC, 4, 1) // one word below the only window
	b.Write(0x40000400, 4, 1) // one word past it
	if len(rec.Diags) != 3 {
		t.Fatalf("got %d diagnostics, want 3: %v", len(rec.Diags), rec.Diags)
	}
	kinds := []socsim.DiagKind{socsim.DiagUnmappedRead, socsim.DiagUnmappedWrite, socsim.DiagUnmappedWrite}
	for i, k := range kinds {
		if rec.Diags[i].Kind != k {
			t.Errorf("diagnostic %d: got kind %v, want %v", i, rec.Diags[i].Kind, k)
		}
	}
	// peripheral state untouched
	if got := p.Get("R0"); got != 0x11 {
		t.Errorf("P0.R0 = %#x after unmapped accesses, want 0x11", got)
	}
}

func TestBus_mapErrors(t *testing.T) {
	var rec soctest.DiagRecorder
	b := socsim.NewBus(rec.Func())
	p := newTestFile(t, "P0", &rec)
	if err := b.Map("P0", 0x40000000, 0x400, p); err != nil {
		t.Fatal(err)
	}
	td := []struct {
		name string
		base uint32
		size uint32
	}{
		{"identical window", 0x40000000, 0x400},
		{"overlap from below", 0x3FFFFC00, 0x404},
		{"overlap from above", 0x400003FC, 0x400},
		{"containing window", 0x3FFFF000, 0x10000},
		{"contained window", 0x40000100, 0x4},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			if err := b.Map("X", d.base, d.size, newTestFile(t, "X", &rec)); err == nil {
				t.Error("no error")
			}
		})
	}
	if err := b.Map("nil", 0x50000000, 0x400, nil); err == nil {
		t.Error("nil peripheral: no error")
	}
	if err := b.Map("empty", 0x50000000, 0, p); err == nil {
		t.Error("empty window: no error")
	}
	if err := b.Map("wrap", 0xFFFFFC00, 0x800, p); err == nil {
		t.Error("wrapping window: no error")
	}
	// adjacent windows are fine
	if err := b.Map("P1", 0x40000400, 0x400, newTestFile(t, "P1", &rec)); err != nil {
		t.Errorf("adjacent window rejected: %v", err)
	}
}

// A window may end exactly at the top of the 32-bit address space; the
// boundary arithmetic must not wrap.
func TestBus_topOfAddressSpace(t *testing.T) {
	var rec soctest.DiagRecorder
	b := socsim.NewBus(rec.Func())
	p := newTestFile(t, "TOP", &rec)
	if err := b.Map("TOP", 0xFFFFFC00, 0x400, p); err != nil {
		t.Fatal(err)
	}
	if got := b.Read(0xFFFFFC00, 4); got != 0x11 {
		t.Errorf("read TOP.R0 = %#x, want 0x11", got)
	}
	b.Write(0xFFFFFC04, 4, 0xCC)
	if got := p.Get("R1"); got != 0xCC {
		t.Errorf("TOP.R1 = %#x, want 0xCC", got)
	}
	if len(rec.Diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Diags)
	}
	if err := b.Map("OVER", 0xFFFFFE00, 0x100, newTestFile(t, "OVER", &rec)); err == nil {
		t.Error("window inside TOP accepted")
	}
	if err := b.Map("wrap", 0xFFFFFC00, 0x401, p); err == nil {
		t.Error("one-past-the-top window accepted")
	}
}

func TestBus_resetBroadcast(t *testing.T) {
	var rec soctest.DiagRecorder
	b := socsim.NewBus(rec.Func())
	p0 := newTestFile(t, "P0", &rec)
	p1 := newTestFile(t, "P1", &rec)
	if err := b.Map("P0", 0x40000000, 0x400, p0); err != nil {
		t.Fatal(err)
	}
	if err := b.Map("P1", 0x40000400, 0x400, p1); err != nil {
		t.Fatal(err)
	}
	b.Write(0x40000000, 4, 0xFF)
	b.Write(0x40000400, 4, 0xFF)
	b.Reset()
	if got := p0.Get("R0"); got != 0x11 {
		t.Errorf("P0.R0 = %#x after reset, want 0x11", got)
	}
	if got := p1.Get("R0"); got != 0x11 {
		t.Errorf("P1.R0 = %#x after reset, want 0x11", got)
	}
}
