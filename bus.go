// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package socsim

import (
	"sort"

	"github.com/pkg/errors"
)

// A Peripheral is the capability interface implemented by every device that
// can be mapped on a Bus. Offsets passed to Read and Write are relative to
// the peripheral's window base; out-of-window offsets never reach the
// peripheral.
//
type Peripheral interface {
	Read(off uint32, size int) uint32
	Write(off uint32, size int, v uint32)
	Reset()
}

type window struct {
	name string
	base uint32
	size uint32
	p    Peripheral
}

func (w *window) contains(addr uint32) bool {
	return addr-w.base < w.size
}

// end is exclusive and computed in 64 bits: a window may end exactly at the
// top of the 32-bit address space.
func (w *window) end() uint64 {
	return uint64(w.base) + uint64(w.size)
}

// A Bus is the static address map of a composed system. It routes each
// access to the single peripheral whose window contains the address.
// Lookups are deterministic and total over the 32-bit address space:
// addresses outside any window resolve to a diagnostic and a benign
// default, never to undefined behavior.
//
type Bus struct {
	windows []window // sorted by base
	diag    DiagFunc
}

// NewBus returns an empty address map emitting diagnostics to diag.
//
func NewBus(diag DiagFunc) *Bus {
	if diag == nil {
		diag = DefaultDiag
	}
	return &Bus{diag: diag}
}

// Map places p's window at [base, base+size). Windows of mapped peripherals
// must not overlap; a conflicting or degenerate window is rejected so that
// composition can fail atomically.
//
func (b *Bus) Map(name string, base, size uint32, p Peripheral) error {
	if p == nil {
		return errors.Errorf("bus: nil peripheral %s", name)
	}
	if size == 0 {
		return errors.Errorf("bus: empty window for %s", name)
	}
	end := uint64(base) + uint64(size)
	if end > 1<<32 {
		return errors.Errorf("bus: window for %s wraps the address space", name)
	}
	for i := range b.windows {
		w := &b.windows[i]
		if uint64(base) < w.end() && uint64(w.base) < end {
			return errors.Errorf("bus: window [0x%x, 0x%x) for %s overlaps %s", base, end, name, w.name)
		}
	}
	b.windows = append(b.windows, window{name: name, base: base, size: size, p: p})
	sort.Slice(b.windows, func(i, j int) bool { return b.windows[i].base < b.windows[j].base })
	return nil
}

func (b *Bus) find(addr uint32) *window {
	i := sort.Search(len(b.windows), func(i int) bool { return b.windows[i].end() > uint64(addr) })
	if i < len(b.windows) && b.windows[i].contains(addr) {
		return &b.windows[i]
	}
	return nil
}

// Read dispatches a size-byte read at addr to the owning peripheral.
// Unmapped addresses read as 0 with a diagnostic.
//
func (b *Bus) Read(addr uint32, size int) uint32 {
	if w := b.find(addr); w != nil {
		return w.p.Read(addr-w.base, size)
	}
	b.diag(Diag{Region: "bus", Offset: addr, Size: size, Kind: DiagUnmappedRead})
	return 0
}

// Write dispatches a size-byte write at addr to the owning peripheral.
// Writes to unmapped addresses are dropped with a diagnostic.
//
func (b *Bus) Write(addr uint32, size int, v uint32) {
	if w := b.find(addr); w != nil {
		w.p.Write(addr-w.base, size, v)
		return
	}
	b.diag(Diag{Region: "bus", Offset: addr, Size: size, Kind: DiagUnmappedWrite})
}

// Reset broadcasts a synchronous reset to every mapped peripheral. Order is
// irrelevant: no peripheral reads another's registers during reset.
//
func (b *Bus) Reset() {
	for i := range b.windows {
		b.windows[i].p.Reset()
	}
}
