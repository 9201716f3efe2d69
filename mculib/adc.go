// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mculib

import (
	"github.com/db47h/socsim"
	"github.com/pkg/errors"
)

// ADC register offsets.
const (
	adcSR   = 0x00
	adcCR1  = 0x04
	adcCR2  = 0x08
	adcHTR  = 0x24
	adcLTR  = 0x28
	adcSQR1 = 0x2C
	adcDR   = 0x4C
)

// ADCSREOC is the end-of-conversion flag in SR.
const ADCSREOC = 1 << 1

// ADC is a minimal analog-to-digital converter: plain registers plus an
// end-of-conversion event that is reflected in the status register and on
// the interrupt output as a level.
//
// Several instances typically share one CPU vector through an OrIRQ; the
// only way to tell which instance fired is to poll each instance's SR.
//
type ADC struct {
	*socsim.RegFile
	out socsim.Line
}

// NewADC returns an ADC named name (e.g. "ADC1") whose interrupt output
// feeds out.
//
func NewADC(name string, out socsim.Line, diag socsim.DiagFunc) (*ADC, error) {
	if out == nil {
		return nil, errors.Errorf("%s: nil interrupt output line", name)
	}
	regs := []socsim.Reg{
		{Name: "SR", Offset: adcSR, Reset: 0x00000000},
		{Name: "CR1", Offset: adcCR1, Reset: 0x00000000},
		{Name: "CR2", Offset: adcCR2, Reset: 0x00000000},
		{Name: "HTR", Offset: adcHTR, Reset: 0x00000FFF},
		{Name: "LTR", Offset: adcLTR, Reset: 0x00000000},
		{Name: "SQR1", Offset: adcSQR1, Reset: 0x00000000},
		{Name: "DR", Offset: adcDR, Reset: 0x00000000},
	}
	f, err := socsim.NewRegFile(name, diag, regs)
	if err != nil {
		return nil, err
	}
	return &ADC{RegFile: f, out: out}, nil
}

// EndOfConversion drives the end-of-conversion event: the EOC flag in SR
// mirrors the level and the interrupt output follows it.
//
func (a *ADC) EndOfConversion(level bool) {
	var cond uint32
	if level {
		cond = 1
	}
	a.Put("SR", socsim.SetOrClearIf(a.Get("SR"), ADCSREOC, cond))
	a.out(level)
}
