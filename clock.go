package socsim

// A Clock is a node in the clock distribution graph. A root clock has a
// fixed frequency set by the board; a derived clock follows its source,
// with its period scaled by the mul/div ratio.
//
// Clocks carry configuration only: peripherals in this model react to
// register writes, not to clock edges, so a Clock's job is to let the
// composition step verify its wiring preconditions and report frequencies.
//
type Clock struct {
	name string
	hz   uint64
	src  *Clock
	mul  uint32
	div  uint32
}

// NewClock returns an unwired clock node.
//
func NewClock(name string) *Clock {
	return &Clock{name: name, mul: 1, div: 1}
}

// Name returns the clock's name.
//
func (c *Clock) Name() string {
	return c.name
}

// SetHz makes c a root clock running at hz. Board code uses this to drive
// the system clock input.
//
func (c *Clock) SetHz(hz uint64) {
	c.hz = hz
	c.src = nil
}

// SetSource makes c follow src.
//
func (c *Clock) SetSource(src *Clock) {
	c.src = src
	c.hz = 0
}

// SetMulDiv scales c's period by mul/div relative to its source, so a
// (8, 1) ratio yields one eighth of the source frequency.
//
func (c *Clock) SetMulDiv(mul, div uint32) {
	if mul == 0 {
		mul = 1
	}
	if div == 0 {
		div = 1
	}
	c.mul = mul
	c.div = div
}

// HasSource reports whether the clock is wired, either to a fixed board
// frequency or to another clock.
//
func (c *Clock) HasSource() bool {
	return c.src != nil || c.hz != 0
}

// Hz returns the clock's current frequency, 0 if unwired.
//
func (c *Clock) Hz() uint64 {
	if c.src != nil {
		return c.src.Hz() * uint64(c.div) / uint64(c.mul)
	}
	return c.hz
}
