// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package socsim

// Bit returns a 32-bit word with only bit n set.
//
func Bit(n uint) uint32 {
	return 1 << n
}

// SetOrClearIf returns value with the bits in mask set if condition is
// non-zero, cleared otherwise.
//
// This is the primitive used by peripherals whose registers contain derived
// bits, e.g. a clock controller setting a "ready" bit to mirror its paired
// "enable" bit.
//
func SetOrClearIf(value, mask, condition uint32) uint32 {
	if condition != 0 {
		return value | mask
	}
	return value &^ mask
}
