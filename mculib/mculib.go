// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package mculib provides a library of reusable peripherals for socsim.
//
// Register offsets, reset values and interrupt semantics follow the
// STM32F4 series (RM0383). Peripherals are created unmapped and unwired;
// the soc package (or test code) places them on a bus and connects their
// interrupt lines.
//
package mculib

import "github.com/db47h/socsim"

// mustRegFile converts register table definition errors into panics.
// Peripheral register tables are fixed at compile time, so a failure here is
// a bug in the table, not a composition error.
func mustRegFile(f *socsim.RegFile, err error) *socsim.RegFile {
	if err != nil {
		panic(err)
	}
	return f
}
