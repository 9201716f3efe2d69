package socsim

import (
	"github.com/pkg/errors"
)

// stateVersion is bumped whenever the meaning of a persisted register list
// changes incompatibly.
const stateVersion = 1

// A RegState is one (name, value) pair of persisted register state.
//
type RegState struct {
	Name  string
	Value uint32
}

// A State is the persisted state of one register file: an ordered list of
// (name, value) pairs covering exactly the file's registers. The encoding
// of State to storage is the snapshot mechanism's concern, not this
// package's.
//
type State struct {
	Name    string
	Version int
	Regs    []RegState
}

// State captures the register file's current state.
//
func (f *RegFile) State() State {
	s := State{Name: f.name, Version: stateVersion, Regs: make([]RegState, len(f.regs))}
	for i, r := range f.regs {
		s.Regs[i] = RegState{Name: r.Name, Value: f.vals[i]}
	}
	return s
}

// Restore loads a previously captured state. The state must match the file
// exactly: same region name, same version, same register names in the same
// order. Any mismatch is rejected with an error and leaves the file
// untouched; silent truncation is never performed.
//
func (f *RegFile) Restore(s State) error {
	if err := f.Check(s); err != nil {
		return err
	}
	for i, r := range s.Regs {
		f.vals[i] = r.Value
	}
	return nil
}

// Check reports whether s would be accepted by Restore, without touching the
// file. Callers restoring several files at once check them all first so that
// a rejection leaves no file modified.
//
func (f *RegFile) Check(s State) error {
	if s.Name != f.name {
		return errors.Errorf("regfile %s: state belongs to %s", f.name, s.Name)
	}
	if s.Version != stateVersion {
		return errors.Errorf("regfile %s: state version %d, want %d", f.name, s.Version, stateVersion)
	}
	if len(s.Regs) != len(f.regs) {
		return errors.Errorf("regfile %s: state has %d registers, want %d", f.name, len(s.Regs), len(f.regs))
	}
	for i, r := range s.Regs {
		if r.Name != f.regs[i].Name {
			return errors.Errorf("regfile %s: unknown register %s at position %d (want %s)", f.name, r.Name, i, f.regs[i].Name)
		}
	}
	return nil
}
