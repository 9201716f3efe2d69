/*
Package socsim provides the necessary tools to build a functional simulation
of a microcontroller System-on-Chip: memory-mapped register files with
address-decoded dispatch, interrupt lines with fan-in/fan-out combinators,
a clock distribution graph, and an address map routing bus accesses to
peripheral windows.

The package models behavior, not timing: a bus access runs to completion
synchronously, including any derived-register recomputation and interrupt
propagation it triggers. There is no cycle accuracy and no bus arbitration.

Concrete peripherals built on these blocks live in the mculib package, and
the soc package composes them into complete systems.

*/
package socsim
