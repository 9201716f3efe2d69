// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package socsim

import "log"

// A DiagKind classifies a recoverable access anomaly.
//
type DiagKind int

// Access anomaly kinds.
//
const (
	// read of an in-window offset backed by no register
	DiagUnknownRead DiagKind = iota
	// write to an in-window offset backed by no register
	DiagUnknownWrite
	// read of an address outside any mapped window
	DiagUnmappedRead
	// write to an address outside any mapped window
	DiagUnmappedWrite
	// read of a stub region covering an unmodeled peripheral
	DiagUnimplementedRead
	// write to a stub region covering an unmodeled peripheral
	DiagUnimplementedWrite
)

func (k DiagKind) String() string {
	switch k {
	case DiagUnknownRead:
		return "read: bad offset"
	case DiagUnknownWrite:
		return "write: bad offset"
	case DiagUnmappedRead:
		return "read: unmapped address"
	case DiagUnmappedWrite:
		return "write: unmapped address"
	case DiagUnimplementedRead:
		return "read: unimplemented device"
	case DiagUnimplementedWrite:
		return "write: unimplemented device"
	}
	return "unknown diagnostic"
}

// A Diag describes one recoverable access anomaly. Diagnostics are emitted
// for accesses that have a defined benign outcome (reads return 0, writes
// are dropped); they never abort the simulation and never disturb the state
// of any other register.
//
type Diag struct {
	Region string // name of the register block or region accessed
	Offset uint32 // offset within the region, or absolute address for unmapped accesses
	Size   int    // access size in bytes (1, 2 or 4)
	Kind   DiagKind
}

// A DiagFunc consumes diagnostics. It is provided by the host at composition
// time; implementations must not panic.
//
type DiagFunc func(d Diag)

// DefaultDiag logs diagnostics with the standard library logger.
//
func DefaultDiag(d Diag) {
	log.Printf("%s: %v 0x%x (size %d)", d.Region, d.Kind, d.Offset, d.Size)
}
