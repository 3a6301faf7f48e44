package hw

import (
	"fmt"
	"io"

	"invaders/emu/log"
	"invaders/hw/hwio"
)

// Restart (RST) vectors are spaced 8 bytes apart from address 0. The
// display hardware drives two of them each frame.
const (
	ResetVector     = uint16(0x0000)
	MidScreenVector = 1 // RST 1 -> $0008, raised mid-screen
	VBlankVector    = 2 // RST 2 -> $0010, raised at end of frame
)

// OpcodeError is reported when the CPU fetches a byte with no dispatch
// entry. The CPU state is not safely resumable afterwards.
type OpcodeError struct {
	PC     uint16
	Opcode uint8
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode $%02X at $%04X", e.Opcode, e.PC)
}

// CPU is an Intel 8080 interpreter. Memory accesses go through Bus,
// IN/OUT instructions through Ports.
type CPU struct {
	Bus   *hwio.Table
	Ports *Ports

	// cpu registers
	A, B, C, D, E, H, L uint8
	SP, PC              uint16
	PSW                 PSW

	// INTE is the interrupt-enable flip flop, set by EI, cleared by DI
	// and by interrupt acknowledge.
	INTE bool

	Cycles int64 // accumulated clock cycles

	halted bool
	err    error

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// NewCPU creates a new CPU at power-up state: PC 0, interrupts disabled.
func NewCPU(bus *hwio.Table, ports *Ports) *CPU {
	cpu := &CPU{
		Bus:   bus,
		Ports: ports,
	}
	cpu.Reset()
	return cpu
}

func (c *CPU) Reset() {
	c.A, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0
	c.SP = 0
	c.PC = ResetVector
	c.PSW.reset()
	c.INTE = false
	c.halted = false
	c.err = nil
	c.Cycles = 0
}

/* register pairs */

func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) setBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }
func (c *CPU) setDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }
func (c *CPU) setHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

/* bus accessors */

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	return hwio.Read16(c.Bus, addr)
}

func (c *CPU) Write16(addr uint16, val uint16) {
	hwio.Write16(c.Bus, addr, val)
}

// readM and writeM access the memory operand (HL indirect).
func (c *CPU) readM() uint8     { return c.Read8(c.HL()) }
func (c *CPU) writeM(val uint8) { c.Write8(c.HL(), val) }

// fetch8 fetches the next instruction byte, advancing PC.
func (c *CPU) fetch8() uint8 {
	v := c.Read8(c.PC)
	c.PC++
	return v
}

// fetch16 fetches a little-endian immediate word, advancing PC.
func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	c.SP--
	c.Write8(c.SP, val)
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val))
}

func (c *CPU) pull8() uint8 {
	v := c.Read8(c.SP)
	c.SP++
	return v
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes a single instruction and returns the number of clock
// cycles it consumed. A halted CPU burns HLT-sized cycle batches so
// that frame timing still progresses.
func (c *CPU) Step() int {
	if c.err != nil {
		return 0
	}
	if c.halted {
		c.Cycles += int64(opsCycles[0x76])
		return int(opsCycles[0x76])
	}

	if c.tracer != nil {
		c.tracer.write(c)
	}

	pc := c.PC
	opcode := c.fetch8()
	op := ops[opcode]
	if op == nil {
		c.err = &OpcodeError{PC: pc, Opcode: opcode}
		c.halted = true
		log.ModCPU.ErrorZ("unimplemented opcode").
			Hex16("PC", pc).
			Hex8("opcode", opcode).
			End()
		return 0
	}

	start := c.Cycles
	c.Cycles += int64(opsCycles[opcode])
	op(c)
	return int(c.Cycles - start)
}

// Run executes instructions until the cycle counter reaches until.
func (c *CPU) Run(until int64) {
	for c.Cycles < until && c.err == nil {
		c.Step()
	}
}

// Interrupt delivers a forced RST n call if interrupts are enabled.
// Acknowledging clears INTE (hardware auto-disable) and wakes a halted
// CPU. Returns whether the interrupt was taken.
func (c *CPU) Interrupt(n uint8) bool {
	if !c.INTE || c.err != nil {
		return false
	}
	c.INTE = false
	c.halted = false
	c.push16(c.PC)
	c.PC = uint16(n&7) * 8
	c.Cycles += int64(opsCycles[0xc7]) // same cost as RST
	return true
}

func (c *CPU) IsHalted() bool {
	return c.halted
}

// Err returns the fatal error that stopped the CPU, if any.
func (c *CPU) Err() error {
	return c.err
}

/* tracing */

func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w}
}
