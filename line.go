// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package socsim

import (
	"strconv"

	"github.com/pkg/errors"
)

// A Line is an interrupt line input: the source calls it with the new level
// whenever the level changes. A line carries no payload beyond its level.
//
// Lines form an acyclic graph wired at composition time: peripheral outputs
// feed combinator inputs which feed the CPU's interrupt vector. Propagation
// is synchronous; by the time a bus access returns, every line transition it
// caused has been delivered.
//
type Line func(level bool)

// Pulse raises l then immediately lowers it on the same logical step. This is
// how edge-style interrupt requests are modeled over level lines, keeping the
// combinator model uniform.
//
func Pulse(l Line) {
	l(true)
	l(false)
}

// An OrIRQ merges several independent interrupt sources into a single output
// line: the output level is the logical OR of the last known level of every
// input. The destination is notified only when the merged level actually
// changes.
//
// It is used where several same-kind peripheral instances share one CPU
// vector. The CPU cannot tell which instance raised the line and must poll
// each instance's own status register; this ambiguity is inherent to the
// topology, not a defect.
//
type OrIRQ struct {
	in  []bool
	out Line
	cur bool
}

// NewOrIRQ returns an aggregator with n inputs feeding out.
//
func NewOrIRQ(n int, out Line) (*OrIRQ, error) {
	if n <= 0 {
		return nil, errors.Errorf("or-irq: invalid input count %d", n)
	}
	if out == nil {
		return nil, errors.New("or-irq: nil output line")
	}
	return &OrIRQ{in: make([]bool, n), out: out}, nil
}

// Set records the level of input i and recomputes the merged output,
// notifying the destination on change. Set is the single point of truth for
// input levels: sources routed through an aggregator must never bypass it.
// It panics if i is out of range.
//
func (o *OrIRQ) Set(i int, level bool) {
	if i < 0 || i >= len(o.in) {
		panic("or-irq: input " + strconv.Itoa(i) + " does not exist")
	}
	o.in[i] = level
	merged := false
	for _, l := range o.in {
		if l {
			merged = true
			break
		}
	}
	if merged != o.cur {
		o.cur = merged
		o.out(merged)
	}
}

// Input returns input i as a Line. It panics if i is out of range.
//
func (o *OrIRQ) Input(i int) Line {
	if i < 0 || i >= len(o.in) {
		panic("or-irq: input " + strconv.Itoa(i) + " does not exist")
	}
	return func(level bool) { o.Set(i, level) }
}

// Output returns the current merged level.
//
func (o *OrIRQ) Output() bool {
	return o.cur
}

// A Router is a static fan-out table mapping a source line index to a
// destination Line. It is a stateless pass-through: unlike OrIRQ it performs
// no merging, so two routed sources sharing one destination will each drive
// that destination's level directly.
//
// Several distinct source indices may legitimately share one destination
// (e.g. external-event lines sharing a combined vector); every index has
// exactly one destination.
//
type Router struct {
	dest []Line
}

// NewRouter returns a router over the given destination table, indexed by
// source line number.
//
func NewRouter(dest []Line) (*Router, error) {
	if len(dest) == 0 {
		return nil, errors.New("router: empty destination table")
	}
	for i, d := range dest {
		if d == nil {
			return nil, errors.Errorf("router: nil destination for source %d", i)
		}
	}
	r := &Router{dest: make([]Line, len(dest))}
	copy(r.dest, dest)
	return r, nil
}

// Input returns source index i as a Line. It panics if i is out of range.
//
func (r *Router) Input(i int) Line {
	if i < 0 || i >= len(r.dest) {
		panic("router: source " + strconv.Itoa(i) + " does not exist")
	}
	return r.dest[i]
}

// Size returns the number of source indices.
//
func (r *Router) Size() int {
	return len(r.dest)
}
