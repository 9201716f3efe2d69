// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mculib

import (
	"github.com/db47h/socsim"
	"github.com/pkg/errors"
)

// Flash interface register offsets.
const (
	flashACR     = 0x00
	flashKEYR    = 0x04
	flashOPTKEYR = 0x08
	flashSR      = 0x0C
	flashCR      = 0x10
	flashOPTCR   = 0x14
	flashOPTCR1  = 0x18
)

var flashRegs = []socsim.Reg{
	{Name: "ACR", Offset: flashACR, Reset: 0x00000000},
	{Name: "KEYR", Offset: flashKEYR, Reset: 0x00000000},
	{Name: "OPTKEYR", Offset: flashOPTKEYR, Reset: 0x00000000},
	// Reading SR returns CR's stored value.
	// TODO verify against the RM0383 datasheet: SR and CR are distinct on
	// hardware, but current behavior is preserved until checked.
	{Name: "SR", Offset: flashSR, Reset: 0x00000000, ReadsFrom: "CR"},
	{Name: "CR", Offset: flashCR, Reset: 0x80000000},
	{Name: "OPTCR", Offset: flashOPTCR, Reset: 0x0FFFAAED},
	{Name: "OPTCR1", Offset: flashOPTCR1, Reset: 0x0FFF0000},
}

// Flash is the flash memory interface controller: a plain register file
// with a single interrupt input that pulses the output line on every
// delivered transition, with no gating logic.
//
type Flash struct {
	*socsim.RegFile
	out socsim.Line
}

// NewFlash returns a flash interface whose interrupt output feeds out.
//
func NewFlash(out socsim.Line, diag socsim.DiagFunc) (*Flash, error) {
	if out == nil {
		return nil, errors.New("flash: nil interrupt output line")
	}
	return &Flash{
		RegFile: mustRegFile(socsim.NewRegFile("FLASH", diag, flashRegs)),
		out:     out,
	}, nil
}

// Input returns the controller's single interrupt input as a Line.
//
func (f *Flash) Input() socsim.Line {
	return func(level bool) { socsim.Pulse(f.out) }
}
