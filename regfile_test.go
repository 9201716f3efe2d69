package socsim_test

import (
	"testing"

	"github.com/db47h/socsim"
	"github.com/db47h/socsim/soctest"
)

func testRegs() []socsim.Reg {
	return []socsim.Reg{
		{Name: "CTRL", Offset: 0x00, Reset: 0x00000081},
		{Name: "STAT", Offset: 0x04, Reset: 0x00000000, ReadsFrom: "CTRL"},
		{Name: "DATA", Offset: 0x08, Reset: 0xCAFE0000},
		// bit 1 mirrors bit 0 on every write
		{Name: "PAIR", Offset: 0x0C, Reset: 0x00000000,
			OnWrite: func(v uint32) uint32 { return socsim.SetOrClearIf(v, socsim.Bit(1), v&socsim.Bit(0)) }},
	}
}

func TestRegFile_resetValues(t *testing.T) {
	var rec soctest.DiagRecorder
	f, err := socsim.NewRegFile("test", rec.Func(), testRegs())
	if err != nil {
		t.Fatal(err)
	}
	// scramble, then check reset restores every declared value
	f.Write(0x00, 4, 0xFFFFFFFF)
	f.Write(0x08, 4, 0xFFFFFFFF)
	soctest.CheckResetValues(t, f, map[uint32]uint32{
		0x00: 0x00000081,
		0x08: 0xCAFE0000,
		0x0C: 0x00000000,
	})
	// reset is idempotent
	soctest.CheckResetValues(t, f, map[uint32]uint32{0x00: 0x00000081})
	if len(rec.Diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Diags)
	}
}

func TestRegFile_readWrite(t *testing.T) {
	var rec soctest.DiagRecorder
	f, err := socsim.NewRegFile("test", rec.Func(), testRegs())
	if err != nil {
		t.Fatal(err)
	}
	f.Write(0x08, 4, 0x12345678)
	if got := f.Read(0x08, 4); got != 0x12345678 {
		t.Errorf("DATA = %#x, want 0x12345678", got)
	}
	// write side effects are visible to the very next read
	f.Write(0x0C, 4, 0x00000101)
	if got := f.Read(0x0C, 4); got != 0x00000103 {
		t.Errorf("PAIR = %#x, want 0x00000103", got)
	}
	f.Write(0x0C, 4, 0x00000100)
	if got := f.Read(0x0C, 4); got != 0x00000100 {
		t.Errorf("PAIR = %#x, want 0x00000100", got)
	}
}

func TestRegFile_readAlias(t *testing.T) {
	var rec soctest.DiagRecorder
	f, err := socsim.NewRegFile("test", rec.Func(), testRegs())
	if err != nil {
		t.Fatal(err)
	}
	f.Write(0x00, 4, 0x000000AA) // CTRL
	f.Write(0x04, 4, 0x000000BB) // STAT, stored but shadowed on read
	if got := f.Read(0x04, 4); got != 0x000000AA {
		t.Errorf("STAT read = %#x, want CTRL value 0xAA", got)
	}
	if got := f.Get("STAT"); got != 0x000000BB {
		t.Errorf("STAT stored value = %#x, want 0xBB", got)
	}
}

func TestRegFile_unknownOffset(t *testing.T) {
	var rec soctest.DiagRecorder
	f, err := socsim.NewRegFile("test", rec.Func(), testRegs())
	if err != nil {
		t.Fatal(err)
	}
	f.Write(0x08, 4, 0x12345678)
	soctest.CheckUnknownOffset(t, f, 0x10, &rec)
	soctest.CheckUnknownOffset(t, f, 0x3FC, &rec)
	// no other register was disturbed
	if got := f.Read(0x08, 4); got != 0x12345678 {
		t.Errorf("DATA = %#x after unknown-offset accesses, want 0x12345678", got)
	}
}

func TestRegFile_getPut(t *testing.T) {
	f, err := socsim.NewRegFile("test", socsim.DefaultDiag, testRegs())
	if err != nil {
		t.Fatal(err)
	}
	// Put bypasses OnWrite hooks
	f.Put("PAIR", 0x00000001)
	if got := f.Get("PAIR"); got != 0x00000001 {
		t.Errorf("PAIR = %#x, want 0x1 (hook must not run)", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("Get of unknown register: no panic")
		}
	}()
	f.Get("NOPE")
}

func TestRegFile_builderErrors(t *testing.T) {
	td := []struct {
		name string
		regs []socsim.Reg
	}{
		{"no registers", nil},
		{"unnamed register", []socsim.Reg{{Offset: 0}}},
		{"unaligned offset", []socsim.Reg{{Name: "A", Offset: 2}}},
		{"duplicate name", []socsim.Reg{{Name: "A", Offset: 0}, {Name: "A", Offset: 4}}},
		{"duplicate offset", []socsim.Reg{{Name: "A", Offset: 0}, {Name: "B", Offset: 0}}},
		{"unknown alias", []socsim.Reg{{Name: "A", Offset: 0, ReadsFrom: "B"}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			if _, err := socsim.NewRegFile("test", nil, d.regs); err == nil {
				t.Error("no error")
			}
		})
	}
	if _, err := socsim.NewRegFile("", nil, testRegs()); err == nil {
		t.Error("empty file name: no error")
	}
}
