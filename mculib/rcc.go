// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package mculib

import (
	"strconv"

	"github.com/db47h/socsim"
	"github.com/pkg/errors"
)

// RCC register offsets.
const (
	rccCR         = 0x00
	rccPLLCFGR    = 0x04
	rccCFGR       = 0x08
	rccCIR        = 0x0C
	rccAHB1RSTR   = 0x10
	rccAHB2RSTR   = 0x14
	rccAPB1RSTR   = 0x20
	rccAPB2RSTR   = 0x24
	rccAHB1ENR    = 0x30
	rccAHB2ENR    = 0x34
	rccAPB1ENR    = 0x40
	rccAPB2ENR    = 0x44
	rccAHB1LPENR  = 0x50
	rccAHB2LPENR  = 0x54
	rccAPB1LPENR  = 0x60
	rccAPB2LPENR  = 0x64
	rccBDCR       = 0x70
	rccCSR        = 0x74
	rccSSCGR      = 0x80
	rccPLLI2SCFGR = 0x84
	rccDCKCFGR    = 0x8C
)

// RCC interrupt input events, in input line order.
const (
	RCCIrqLSIReady = iota // LSI ready
	RCCIrqLSEReady        // LSE ready
	RCCIrqHSIReady        // HSI ready
	RCCIrqHSEReady        // HSE ready
	RCCIrqPLLReady        // main PLL ready
	RCCIrqPLLI2SReady     // PLLI2S ready
	RCCIrqCSS             // clock security system (always latched)
	RCCIrqCount
)

// cirEnableBitOffset places event e's enable bit at e+7. The matching clear
// bit sits at e+16; see the CIR TODO in rccRegs.
const cirEnableBitOffset = 7

// handleCRWrite recomputes the derived ready bits of the clock control
// register: each oscillator/PLL "ready" bit mirrors its paired "on" bit, as
// if the source locked instantly. Real hardware has a ramp-up delay that
// this model skips.
func handleCRWrite(cr uint32) uint32 {
	cr = socsim.SetOrClearIf(cr, socsim.Bit(1), cr&socsim.Bit(0))   // HSIRDY from HSION
	cr = socsim.SetOrClearIf(cr, socsim.Bit(17), cr&socsim.Bit(16)) // HSERDY from HSEON
	cr = socsim.SetOrClearIf(cr, socsim.Bit(25), cr&socsim.Bit(24)) // PLLRDY from PLLON
	cr = socsim.SetOrClearIf(cr, socsim.Bit(27), cr&socsim.Bit(26)) // PLLI2SRDY from PLLI2SON
	return cr
}

// handleCFGRWrite derives the system clock switch status SWS (bits 3:2) from
// the requested switch SW (bits 1:0): the active clock source mirrors the
// requested one immediately. All other bits are stored as written.
func handleCFGRWrite(cfgr uint32) uint32 {
	const (
		swsOffset = 2
		swsBits   = 0x3 << swsOffset
		swBits    = 0x3
	)
	return (cfgr &^ swsBits) | (cfgr&swBits)<<swsOffset
}

var rccRegs = []socsim.Reg{
	// CR bits 15:8 hold the HSI calibration value.
	// TODO use a real on-board calibration value instead of 0xFF.
	{Name: "CR", Offset: rccCR, Reset: 0x0000FF81, OnWrite: handleCRWrite},
	{Name: "PLLCFGR", Offset: rccPLLCFGR, Reset: 0x24003010},
	{Name: "CFGR", Offset: rccCFGR, Reset: 0x00000000, OnWrite: handleCFGRWrite},
	// CIR stores writes verbatim.
	// TODO handle reset of flag bits when the clear bits (23:16) are written.
	{Name: "CIR", Offset: rccCIR, Reset: 0x00000000},
	{Name: "AHB1RSTR", Offset: rccAHB1RSTR, Reset: 0x00000000},
	{Name: "AHB2RSTR", Offset: rccAHB2RSTR, Reset: 0x00000000},
	{Name: "APB1RSTR", Offset: rccAPB1RSTR, Reset: 0x00000000},
	{Name: "APB2RSTR", Offset: rccAPB2RSTR, Reset: 0x00000000},
	{Name: "AHB1ENR", Offset: rccAHB1ENR, Reset: 0x00000000},
	{Name: "AHB2ENR", Offset: rccAHB2ENR, Reset: 0x00000000},
	{Name: "APB1ENR", Offset: rccAPB1ENR, Reset: 0x00000000},
	{Name: "APB2ENR", Offset: rccAPB2ENR, Reset: 0x00000000},
	{Name: "AHB1LPENR", Offset: rccAHB1LPENR, Reset: 0x0061900F},
	{Name: "AHB2LPENR", Offset: rccAHB2LPENR, Reset: 0x00000080},
	{Name: "APB1LPENR", Offset: rccAPB1LPENR, Reset: 0x10E2C80F},
	{Name: "APB2LPENR", Offset: rccAPB2LPENR, Reset: 0x00077930},
	{Name: "BDCR", Offset: rccBDCR, Reset: 0x00000000},
	{Name: "CSR", Offset: rccCSR, Reset: 0x0E000000},
	{Name: "SSCGR", Offset: rccSSCGR, Reset: 0x00000000},
	{Name: "PLLI2SCFGR", Offset: rccPLLI2SCFGR, Reset: 0x24003000},
	{Name: "DCKCFGR", Offset: rccDCKCFGR, Reset: 0x00000000},
}

// RCC is the reset and clock controller. Writes to its control registers
// recompute derived ready/status bits synchronously; its interrupt inputs
// latch flags into CIR and drive a single pulsed output line.
//
type RCC struct {
	*socsim.RegFile
	out socsim.Line
}

// NewRCC returns a clock controller whose interrupt output feeds out.
//
func NewRCC(out socsim.Line, diag socsim.DiagFunc) (*RCC, error) {
	if out == nil {
		return nil, errors.New("rcc: nil interrupt output line")
	}
	return &RCC{
		RegFile: mustRegFile(socsim.NewRegFile("RCC", diag, rccRegs)),
		out:     out,
	}, nil
}

// Input returns interrupt event ev as a Line. It panics if ev is not one of
// the RCCIrq values.
//
func (r *RCC) Input(ev int) socsim.Line {
	if ev < 0 || ev >= RCCIrqCount {
		panic("rcc: irq event " + strconv.Itoa(ev) + " does not exist")
	}
	return func(level bool) { r.setIRQ(ev, level) }
}

// setIRQ latches a raised event into CIR and requests the interrupt. The
// clock security event is always latched; every other event only if its
// enable bit in CIR is set. The output line is pulsed on every delivered
// transition, even when the enable gate suppressed the latch: the request
// always reaches the interrupt controller, and software decides from the
// flags whether anything happened.
func (r *RCC) setIRQ(ev int, level bool) {
	if level {
		enable := socsim.Bit(uint(ev + cirEnableBitOffset))
		if ev == RCCIrqCSS || r.Get("CIR")&enable != 0 {
			// TODO verify the latched flag position against RM0383
			// (hardware puts CSSF at bit 7, with bit 6 reserved).
			r.Put("CIR", r.Get("CIR")|socsim.Bit(uint(ev)))
		}
	}
	socsim.Pulse(r.out)
}
