package mculib

import "github.com/db47h/socsim"

// Unimp is a stub covering a documented but unmodeled peripheral's address
// window. It exists for address-space completeness only: every access fails
// loudly with a diagnostic and a benign outcome (reads return 0, writes are
// dropped), so guest code touching an unmodeled device can never silently
// read foreign memory or crash the simulation.
//
type Unimp struct {
	name string
	diag socsim.DiagFunc
}

// NewUnimp returns a stub region named name.
//
func NewUnimp(name string, diag socsim.DiagFunc) *Unimp {
	if diag == nil {
		diag = socsim.DefaultDiag
	}
	return &Unimp{name: name, diag: diag}
}

func (u *Unimp) Read(off uint32, size int) uint32 {
	u.diag(socsim.Diag{Region: u.name, Offset: off, Size: size, Kind: socsim.DiagUnimplementedRead})
	return 0
}

func (u *Unimp) Write(off uint32, size int, v uint32) {
	u.diag(socsim.Diag{Region: u.name, Offset: off, Size: size, Kind: socsim.DiagUnimplementedWrite})
}

// Reset is a no-op: a stub has no state.
func (u *Unimp) Reset() {}
