// Command socmon runs a Lua-scriptable monitor over a composed STM32F411.
//
// With a script argument the script is executed and socmon exits; without
// one, lines read from stdin are evaluated as Lua chunks. The script
// environment exposes:
//
//	read(addr [, size])      bus read, default size 4
//	write(addr, v [, size])  bus write
//	reset()                  global synchronous reset
//	rccirq(ev, level)        drive RCC interrupt event ev (0..6)
//	adceoc(level)            drive the ADC end-of-conversion event
//	exti(n, level)           drive external interrupt line n (0..15)
//
// Interrupt transitions reaching the CPU vector are printed as they occur.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/db47h/socsim"
	"github.com/db47h/socsim/soc"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/term"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("socmon: ")

	sysclk := socsim.NewClock("sysclk")
	sysclk.SetHz(16_000_000) // HSI

	s, err := soc.New(soc.Config{
		Sysclk: sysclk,
		Vector: func(irq int, level bool) {
			fmt.Printf("nvic: irq %d -> %v\n", irq, level)
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	l := lua.NewState()
	defer l.Close()
	bind(l, s)

	if len(os.Args) > 1 {
		if err := l.DoFile(os.Args[1]); err != nil {
			log.Fatal(err)
		}
		return
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	sc := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !sc.Scan() {
			break
		}
		if err := l.DoString(sc.Text()); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
}

func bind(l *lua.LState, s *soc.F411) {
	l.SetGlobal("read", l.NewFunction(func(l *lua.LState) int {
		addr := uint32(l.CheckInt64(1))
		size := 4
		if l.GetTop() > 1 {
			size = l.CheckInt(2)
		}
		l.Push(lua.LNumber(s.Bus().Read(addr, size)))
		return 1
	}))
	l.SetGlobal("write", l.NewFunction(func(l *lua.LState) int {
		addr := uint32(l.CheckInt64(1))
		v := uint32(l.CheckInt64(2))
		size := 4
		if l.GetTop() > 2 {
			size = l.CheckInt(3)
		}
		s.Bus().Write(addr, size, v)
		return 0
	}))
	l.SetGlobal("reset", l.NewFunction(func(l *lua.LState) int {
		s.Reset()
		return 0
	}))
	l.SetGlobal("rccirq", l.NewFunction(func(l *lua.LState) int {
		s.RCC().Input(l.CheckInt(1))(l.CheckBool(2))
		return 0
	}))
	l.SetGlobal("adceoc", l.NewFunction(func(l *lua.LState) int {
		s.ADC().EndOfConversion(l.CheckBool(1))
		return 0
	}))
	l.SetGlobal("exti", l.NewFunction(func(l *lua.LState) int {
		s.EXTI(l.CheckInt(1))(l.CheckBool(2))
		return 0
	}))
}
