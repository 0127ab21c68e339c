// Package cpu implements the Sharp LR35902 instruction set: the register
// file, the primary and CB-prefixed opcode tables, interrupt dispatch, and
// the HALT bug / STOP-speed-switch hardware quirks. Every memory access
// ticks the bus directly, so the bus itself acts as the scheduler instead
// of pre-reading an instruction's operands and crediting it a fixed cycle
// count.
package cpu

import (
	"github.com/retrosilicon/gomeboy/internal/interrupts"
	"github.com/retrosilicon/gomeboy/internal/mmu"
	"github.com/retrosilicon/gomeboy/internal/types"
)

// CPU is the Game Boy's Sharp LR35902 core.
type CPU struct {
	A, B, C, D, E, F, H, L uint8
	SP, PC                 uint16

	BC, DE, HL, AF *types.RegisterPair

	bus *mmu.Bus
	irq *interrupts.Controller

	halted  bool
	haltBug bool
	stopped bool

	// Frozen is set when the CPU fetches one of the undocumented opcodes
	// that hang real hardware; once set, Step fetches nothing and only
	// ticks the bus for one M-cycle.
	Frozen bool

	mCycles uint8
}

// Stopped reports whether the CPU is in the STOP-halted state, waiting on
// a joypad edge that drives the system clock forward again. While true,
// Step consumes no bus cycles at all: real hardware stops every clock in
// the system, including the PPU's, so nothing about the machine's
// observable state changes until a button is pressed.
func (c *CPU) Stopped() bool { return c.stopped }

// New returns a CPU wired to bus and irq. Callers must call Reset to put
// the registers in a defined power-on state before stepping.
func New(bus *mmu.Bus, irq *interrupts.Controller) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.BC = &types.RegisterPair{High: &c.B, Low: &c.C}
	c.DE = &types.RegisterPair{High: &c.D, Low: &c.E}
	c.HL = &types.RegisterPair{High: &c.H, Low: &c.L}
	c.AF = &types.RegisterPair{High: &c.A, Low: &c.F}
	return c
}

// Reset sets the power-on register state. When
// bootROMPresent is true the boot ROM itself is responsible for bringing
// the registers to their post-boot values, so PC/SP start at zero instead.
func (c *CPU) Reset(isCGB, bootROMPresent bool) {
	c.halted, c.haltBug, c.stopped, c.Frozen = false, false, false, false
	if bootROMPresent {
		c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0, 0
		c.SP, c.PC = 0, 0
		return
	}
	c.F = 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP, c.PC = 0xFFFE, 0x0100
	if isCGB {
		c.A = 0x11
	} else {
		c.A = 0x01
	}
}

func (c *CPU) tickM() {
	c.bus.TickM()
	c.mCycles++
}

// readByte reads one byte, consuming one M-cycle.
func (c *CPU) readByte(addr uint16) uint8 {
	c.tickM()
	return c.bus.Read(addr)
}

// writeByte writes one byte, consuming one M-cycle.
func (c *CPU) writeByte(addr uint16, value uint8) {
	c.tickM()
	c.bus.Write(addr, value)
}

// fetchOpcode reads the byte at PC. Under the HALT bug, PC fails to
// advance exactly once, causing the next instruction to be decoded twice.
func (c *CPU) fetchOpcode() uint8 {
	op := c.readByte(c.PC)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.PC++
	}
	return op
}

// readOperand reads an immediate operand byte following the opcode.
func (c *CPU) readOperand() uint8 {
	v := c.readByte(c.PC)
	c.PC++
	return v
}

func (c *CPU) readOperand16() uint16 {
	lo := c.readOperand()
	hi := c.readOperand()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.writeByte(c.SP, uint8(v>>8))
	c.SP--
	c.writeByte(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.readByte(c.SP)
	c.SP++
	hi := c.readByte(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes one instruction (or one M-cycle of HALT/frozen wait) and
// returns the number of M-cycles consumed. While STOP is parked it
// consumes none, and the step that wakes it consumes one.
func (c *CPU) Step() uint8 {
	c.mCycles = 0
	// Apply any EI scheduled by the previous instruction before fetching
	// this one, so IME only becomes visible after a full instruction has
	// elapsed since EI ran, never within EI's own Step call.
	c.irq.Step()

	if c.Frozen {
		c.tickM()
		return c.mCycles
	}

	if c.stopped {
		if c.irq.Flag&(1<<interrupts.Joypad) != 0 {
			c.stopped = false
			c.tickM()
		}
		return c.mCycles
	}

	if c.halted {
		c.tickM()
		if c.irq.Pending() {
			c.halted = false
		}
		c.dispatchInterrupt()
		return c.mCycles
	}

	op := c.fetchOpcode()
	if op == 0xCB {
		cbOp := c.readOperand()
		cbInstructions[cbOp](c)
	} else {
		instructions[op](c)
	}
	c.dispatchInterrupt()
	return c.mCycles
}

// dispatchInterrupt services the highest-priority ready interrupt, costing
// the standard 5 M-cycles (2 internal, 2 push, 1 jump).
func (c *CPU) dispatchInterrupt() {
	_, vector, ok := c.irq.Next()
	if !ok {
		return
	}
	c.halted = false
	c.tickM()
	c.tickM()
	c.push16(c.PC)
	c.PC = vector
	c.tickM()
}

// opHALT implements 0x76. The HALT bug triggers when IME is clear but an
// interrupt is already pending at the moment HALT executes: the CPU does
// not actually halt, it just fails to advance PC past the following
// opcode once.
func opHALT(c *CPU) {
	if !c.irq.IME && c.irq.Pending() {
		c.haltBug = true
		return
	}
	c.halted = true
}

// opSTOP implements 0x10. On CGB with KEY1 bit 0 armed this performs the
// double-speed switch instead of actually stopping; otherwise the CPU
// halts until a joypad edge, with no joypad source ever arriving being a
// permanent freeze.
func opSTOP(c *CPU) {
	c.readOperand() // discard the mandatory 0x00 operand byte
	if c.bus.SpeedSwitchArmed() {
		c.bus.PerformSpeedSwitch()
		c.tickM()
		c.tickM()
		return
	}
	c.stopped = true
}

// opIllegal implements the undocumented opcodes that hang real hardware:
// 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD.
func opIllegal(c *CPU) {
	c.Frozen = true
}
