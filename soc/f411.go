// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package soc composes mculib peripherals into complete systems.
//
package soc

import (
	"github.com/db47h/socsim"
	"github.com/db47h/socsim/mculib"
	"github.com/pkg/errors"
)

// A Vector is the CPU collaborator's interrupt input: the fabric calls it
// with a vector number and the new line level. Pulses arrive as a raise
// immediately followed by a lower.
//
type Vector func(irq int, level bool)

// numIRQ is the number of NVIC input lines on the F411.
const numIRQ = 100

// Peripheral window bases. Every window is windowSize bytes except where
// noted in the stub table.
const (
	windowSize = 0x400

	rccAddr    = 0x40023800
	flashRAddr = 0x40023C00
	adc1Addr   = 0x40012000
)

// NVIC vector numbers.
const (
	flashRIRQ = 4
	rccIRQ    = 5
	adcIRQ    = 18
)

// extiIRQ maps the 16 external interrupt lines to their NVIC vectors.
// Lines 5..9 share vector 23 and lines 10..15 share vector 40.
var extiIRQ = [16]int{6, 7, 8, 9, 10, 23, 23, 23, 23, 23, 40, 40, 40, 40, 40, 40}

// unimpRegion describes one documented but unmodeled address region.
type unimpRegion struct {
	name string
	base uint32
	size uint32
}

// Address space completeness: every documented F411 peripheral without a
// model gets a stub region, including the devices a fuller system would
// model (USARTs, timers, SPIs, SYSCFG and the EXTI register block itself).
var unimpRegions = []unimpRegion{
	{"timer[2]", 0x40000000, windowSize},
	{"timer[3]", 0x40000400, windowSize},
	{"timer[4]", 0x40000800, windowSize},
	{"timer[5]", 0x40000C00, windowSize},
	{"timer[6]", 0x40001000, windowSize},
	{"timer[7]", 0x40001400, windowSize},
	{"timer[12]", 0x40001800, windowSize},
	{"timer[13]", 0x40001C00, windowSize},
	{"timer[14]", 0x40002000, windowSize},
	{"RTC and BKP", 0x40002800, windowSize},
	{"WWDG", 0x40002C00, windowSize},
	{"IWDG", 0x40003000, windowSize},
	{"I2S2ext", 0x40003400, windowSize},
	{"SPI2", 0x40003800, windowSize},
	{"SPI3", 0x40003C00, windowSize},
	{"I2S3ext", 0x40004000, windowSize},
	{"USART2", 0x40004400, windowSize},
	{"I2C1", 0x40005400, windowSize},
	{"I2C2", 0x40005800, windowSize},
	{"I2C3", 0x40005C00, windowSize},
	{"CAN1", 0x40006400, windowSize},
	{"CAN2", 0x40006800, windowSize},
	{"PWR", 0x40007000, windowSize},
	{"DAC", 0x40007400, windowSize},
	{"timer[1]", 0x40010000, windowSize},
	{"timer[8]", 0x40010400, windowSize},
	{"USART1", 0x40011000, windowSize},
	{"USART6", 0x40011400, windowSize},
	{"SDIO", 0x40012C00, windowSize},
	{"SPI1", 0x40013000, windowSize},
	{"SPI4", 0x40013400, windowSize},
	{"SYSCFG", 0x40013800, windowSize},
	{"EXTI", 0x40013C00, windowSize},
	{"timer[9]", 0x40014000, windowSize},
	{"timer[10]", 0x40014400, windowSize},
	{"timer[11]", 0x40014800, windowSize},
	{"SPI5", 0x40015000, windowSize},
	{"GPIOA", 0x40020000, windowSize},
	{"GPIOB", 0x40020400, windowSize},
	{"GPIOC", 0x40020800, windowSize},
	{"GPIOD", 0x40020C00, windowSize},
	{"GPIOE", 0x40021000, windowSize},
	{"GPIOF", 0x40021400, windowSize},
	{"GPIOG", 0x40021800, windowSize},
	{"GPIOH", 0x40021C00, windowSize},
	{"GPIOI", 0x40022000, windowSize},
	{"CRC", 0x40023000, windowSize},
	{"BKPSRAM", 0x40024000, windowSize},
	{"DMA1", 0x40026000, windowSize},
	{"DMA2", 0x40026400, windowSize},
	{"Ethernet", 0x40028000, 0x1400},
	{"USB OTG HS", 0x40040000, 0x30000},
	{"USB OTG FS", 0x50000000, 0x31000},
	{"DCMI", 0x50050000, windowSize},
	{"RNG", 0x50060800, windowSize},
}

// Config carries the board-level inputs of an F411.
//
type Config struct {
	// Sysclk is the system clock. It must be wired up by the board code.
	Sysclk *socsim.Clock
	// Refclk is only exposed so composition can verify it: it is derived
	// internally from Sysclk and must NOT be wired up by the board code.
	// Leave nil to let the SoC create it.
	Refclk *socsim.Clock
	// Vector is the CPU's interrupt input. Optional; interrupts are
	// dropped when nil.
	Vector Vector
	// Diag receives access diagnostics. Defaults to socsim.DefaultDiag.
	Diag socsim.DiagFunc
}

// An F411 is a composed STM32F411 SoC: modeled peripherals at their fixed
// windows, the interrupt fabric wired to the CPU vector, and stub regions
// covering the rest of the documented address space.
//
type F411 struct {
	bus     *socsim.Bus
	rcc     *mculib.RCC
	flash   *mculib.Flash
	adc     *mculib.ADC
	adcIRQs *socsim.OrIRQ
	exti    *socsim.Router
	sysclk  *socsim.Clock
	refclk  *socsim.Clock
}

// New builds an F411. Composition is deterministic and atomic: any unmet
// precondition or wiring conflict fails the whole build with an error
// naming the offending step, and no partially initialized SoC is returned.
//
func New(cfg Config) (*F411, error) {
	if cfg.Refclk != nil && cfg.Refclk.HasSource() {
		return nil, errors.New("refclk clock must not be wired up by the board code")
	}
	if cfg.Sysclk == nil || !cfg.Sysclk.HasSource() {
		return nil, errors.New("sysclk clock must be wired up by the board code")
	}
	vec := cfg.Vector
	if vec == nil {
		vec = func(int, bool) {}
	}
	diag := cfg.Diag
	if diag == nil {
		diag = socsim.DefaultDiag
	}

	// the refclk always runs at sysclk / 8
	refclk := cfg.Refclk
	if refclk == nil {
		refclk = socsim.NewClock("refclk")
	}
	refclk.SetMulDiv(8, 1)
	refclk.SetSource(cfg.Sysclk)

	line := func(irq int) (socsim.Line, error) {
		if irq < 0 || irq >= numIRQ {
			return nil, errors.Errorf("irq %d out of range (NVIC has %d inputs)", irq, numIRQ)
		}
		return func(level bool) { vec(irq, level) }, nil
	}

	s := &F411{
		bus:    socsim.NewBus(diag),
		sysclk: cfg.Sysclk,
		refclk: refclk,
	}

	// reset and clock controller
	rccLine, err := line(rccIRQ)
	if err != nil {
		return nil, errors.Wrap(err, "rcc")
	}
	if s.rcc, err = mculib.NewRCC(rccLine, diag); err != nil {
		return nil, err
	}
	if err = s.bus.Map("RCC", rccAddr, windowSize, s.rcc); err != nil {
		return nil, err
	}

	// flash interface controller
	flashLine, err := line(flashRIRQ)
	if err != nil {
		return nil, errors.Wrap(err, "flash")
	}
	if s.flash, err = mculib.NewFlash(flashLine, diag); err != nil {
		return nil, err
	}
	if err = s.bus.Map("FLASH", flashRAddr, windowSize, s.flash); err != nil {
		return nil, err
	}

	// The ADC vector is shared: all ADC instances are ORed into NVIC 18.
	// The F411 has a single ADC, but the aggregator stays so additional
	// instances wire in without touching the CPU side.
	adcLine, err := line(adcIRQ)
	if err != nil {
		return nil, errors.Wrap(err, "adc")
	}
	if s.adcIRQs, err = socsim.NewOrIRQ(1, adcLine); err != nil {
		return nil, err
	}
	if s.adc, err = mculib.NewADC("ADC1", s.adcIRQs.Input(0), diag); err != nil {
		return nil, err
	}
	if err = s.bus.Map("ADC1", adc1Addr, windowSize, s.adc); err != nil {
		return nil, err
	}

	// external interrupt lines, routed to their (shared) NVIC vectors
	dests := make([]socsim.Line, len(extiIRQ))
	for i, irq := range extiIRQ {
		if dests[i], err = line(irq); err != nil {
			return nil, errors.Wrapf(err, "exti line %d", i)
		}
	}
	if s.exti, err = socsim.NewRouter(dests); err != nil {
		return nil, err
	}

	for _, u := range unimpRegions {
		if err = s.bus.Map(u.name, u.base, u.size, mculib.NewUnimp(u.name, diag)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Bus returns the system address map.
//
func (s *F411) Bus() *socsim.Bus { return s.bus }

// RCC returns the reset and clock controller.
//
func (s *F411) RCC() *mculib.RCC { return s.rcc }

// Flash returns the flash interface controller.
//
func (s *F411) Flash() *mculib.Flash { return s.flash }

// ADC returns the first (and only) ADC instance.
//
func (s *F411) ADC() *mculib.ADC { return s.adc }

// EXTI returns external interrupt line n as a Line. Lines 5..9 and 10..15
// land on shared NVIC vectors.
//
func (s *F411) EXTI(n int) socsim.Line { return s.exti.Input(n) }

// Sysclk returns the system clock.
//
func (s *F411) Sysclk() *socsim.Clock { return s.sysclk }

// Refclk returns the internally derived reference clock (sysclk / 8).
//
func (s *F411) Refclk() *socsim.Clock { return s.refclk }

// Reset broadcasts a synchronous reset to every peripheral.
//
func (s *F411) Reset() { s.bus.Reset() }

// State captures the state of every modeled register file, in a fixed
// order.
//
func (s *F411) State() []socsim.State {
	return []socsim.State{
		s.rcc.State(),
		s.flash.State(),
		s.adc.State(),
	}
}

// Restore loads a state previously captured with State. States are matched
// to register files by name; an unknown name, a version mismatch or a
// register list mismatch rejects the whole load.
//
func (s *F411) Restore(states []socsim.State) error {
	files := map[string]*socsim.RegFile{
		s.rcc.Name():   s.rcc.RegFile,
		s.flash.Name(): s.flash.RegFile,
		s.adc.Name():   s.adc.RegFile,
	}
	// check everything first: a rejected load must leave no file modified
	for _, st := range states {
		f, ok := files[st.Name]
		if !ok {
			return errors.Errorf("state for unknown register file %s", st.Name)
		}
		if err := f.Check(st); err != nil {
			return err
		}
	}
	for _, st := range states {
		if err := files[st.Name].Restore(st); err != nil {
			return err
		}
	}
	return nil
}
