// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package socsim

import (
	"github.com/pkg/errors"
)

// A Reg describes one named 32-bit register in a register file.
//
type Reg struct {
	// Register name. Must be unique within the file.
	Name string
	// Byte offset within the peripheral's address window. Must be unique
	// and word aligned.
	Offset uint32
	// Value the register takes on reset. Reset constants must be chosen
	// consistent with any derivation rules, so that a plain reset leaves
	// no derived bit stale.
	Reset uint32
	// OnWrite, if non-nil, transforms the incoming value before it is
	// stored. It must be a pure function of that value; this is where
	// derived bits are recomputed on the write path.
	OnWrite func(v uint32) uint32
	// ReadsFrom, if non-empty, names the sibling register whose stored
	// value the read path returns instead of this register's own.
	ReadsFrom string
}

// A RegFile is an ordered, offset-addressed set of 32-bit registers backing
// one peripheral. It implements the decode/dispatch pattern shared by every
// peripheral kind: known offsets hit their register, unknown in-window
// offsets read as zero and drop writes, with a diagnostic either way.
//
// A RegFile on its own implements Peripheral; peripherals with side effects
// embed one and declare OnWrite hooks or wrap the IRQ input path around it.
//
type RegFile struct {
	name    string
	regs    []Reg
	vals    []uint32
	index   map[uint32]int // offset -> register index
	byName  map[string]int
	readIdx []int // index actually returned by the read path (self or alias)
	diag    DiagFunc
}

// NewRegFile builds a register file from its register definitions. The
// definition order is preserved and becomes the order of the persisted
// state. All registers start at their reset value.
//
func NewRegFile(name string, diag DiagFunc, regs []Reg) (*RegFile, error) {
	if name == "" {
		return nil, errors.New("regfile: empty name")
	}
	if len(regs) == 0 {
		return nil, errors.Errorf("regfile %s: no registers", name)
	}
	if diag == nil {
		diag = DefaultDiag
	}
	f := &RegFile{
		name:    name,
		regs:    make([]Reg, len(regs)),
		vals:    make([]uint32, len(regs)),
		index:   make(map[uint32]int, len(regs)),
		byName:  make(map[string]int, len(regs)),
		readIdx: make([]int, len(regs)),
		diag:    diag,
	}
	copy(f.regs, regs)
	for i, r := range f.regs {
		if r.Name == "" {
			return nil, errors.Errorf("regfile %s: register %d has no name", name, i)
		}
		if r.Offset%4 != 0 {
			return nil, errors.Errorf("regfile %s: register %s at unaligned offset 0x%x", name, r.Name, r.Offset)
		}
		if _, ok := f.byName[r.Name]; ok {
			return nil, errors.Errorf("regfile %s: duplicate register name %s", name, r.Name)
		}
		if _, ok := f.index[r.Offset]; ok {
			return nil, errors.Errorf("regfile %s: duplicate offset 0x%x (%s)", name, r.Offset, r.Name)
		}
		f.byName[r.Name] = i
		f.index[r.Offset] = i
	}
	for i, r := range f.regs {
		f.readIdx[i] = i
		if r.ReadsFrom != "" {
			j, ok := f.byName[r.ReadsFrom]
			if !ok {
				return nil, errors.Errorf("regfile %s: register %s reads from unknown register %s", name, r.Name, r.ReadsFrom)
			}
			f.readIdx[i] = j
		}
	}
	f.Reset()
	return f, nil
}

// Name returns the register file's name, used as the region name in
// diagnostics and persisted state.
//
func (f *RegFile) Name() string {
	return f.name
}

// Read returns the value of the register decoded at off. For a register
// declared with ReadsFrom, the aliased sibling's stored value is returned.
// An unknown offset reads as 0 with a diagnostic; no state is disturbed.
//
// Registers are native-order 32-bit words; size is carried for diagnostics
// only.
//
func (f *RegFile) Read(off uint32, size int) uint32 {
	i, ok := f.index[off]
	if !ok {
		f.diag(Diag{Region: f.name, Offset: off, Size: size, Kind: DiagUnknownRead})
		return 0
	}
	return f.vals[f.readIdx[i]]
}

// Write stores v into the register decoded at off, after applying the
// register's OnWrite transform if it has one. The effect is visible to the
// very next Read on the file. An unknown offset is a no-op with a
// diagnostic.
//
func (f *RegFile) Write(off uint32, size int, v uint32) {
	i, ok := f.index[off]
	if !ok {
		f.diag(Diag{Region: f.name, Offset: off, Size: size, Kind: DiagUnknownWrite})
		return
	}
	if fn := f.regs[i].OnWrite; fn != nil {
		v = fn(v)
	}
	f.vals[i] = v
}

// Reset restores every register to its declared reset value. It is
// idempotent and can be called at any time.
//
func (f *RegFile) Reset() {
	for i := range f.regs {
		f.vals[i] = f.regs[i].Reset
	}
}

// Get returns the stored value of the named register, bypassing the read
// path (aliases are not followed). It panics if no such register exists:
// names are fixed at definition time, so a miss is a programming error.
//
func (f *RegFile) Get(name string) uint32 {
	i, ok := f.byName[name]
	if !ok {
		panic("regfile " + f.name + ": register " + name + " does not exist")
	}
	return f.vals[i]
}

// Put stores v into the named register verbatim, bypassing any OnWrite
// hook. This is the entry point for internally triggered updates such as
// interrupt flag latching. It panics if no such register exists.
//
func (f *RegFile) Put(name string, v uint32) {
	i, ok := f.byName[name]
	if !ok {
		panic("regfile " + f.name + ": register " + name + " does not exist")
	}
	f.vals[i] = v
}
