// Package timer implements DIV/TIMA/TMA/TAC, including the "obscure"
// falling-edge TIMA increment behavior and the delayed overflow-reload
// sequence real hardware exhibits.
package timer

import "github.com/retrosilicon/gomeboy/internal/interrupts"

// timerBit is the bit of the internal 16-bit DIV counter whose falling
// edge clocks TIMA, indexed by TAC's 2-bit clock-select field.
var timerBit = [4]uint8{9, 3, 5, 7}

// Controller is the Game Boy's timer/divider subsystem.
type Controller struct {
	div uint16 // internal 16-bit counter; DIV (0xFF04) exposes the top 8 bits
	tima uint8
	tma  uint8
	tac  uint8 // bits 0-1 clock select, bit 2 enable

	// reloadPending is true from a TIMA overflow until the next T-state
	// reloads TIMA from TMA and requests the interrupt. An overflow happens
	// on a Tick's last T-state or in a register write between Ticks, so the
	// reload lands on the first T-state of the following Tick and the CPU
	// sees TIMA read 0x00 for one M-cycle. A TIMA write in that window
	// cancels the reload and the interrupt; a TMA write changes the value
	// loaded. reloading is true for the T-state right after the reload,
	// during which a TMA write also updates TIMA.
	reloading     bool
	reloadPending bool

	irq *interrupts.Controller
}

// New returns a timer controller wired to the given interrupt controller,
// in its DMG power-on state.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{div: 0xAB00, irq: irq}
}

func (c *Controller) enabled() bool { return c.tac&0x04 != 0 }
func (c *Controller) bit() uint8    { return timerBit[c.tac&0x03] }

func (c *Controller) edgeBit() bool {
	return c.enabled() && (c.div>>c.bit())&1 != 0
}

// Tick advances the timer by one M-cycle (4 T-states of the internal
// counter). In CGB double speed the bus calls it only on every other CPU
// M-cycle, so DIV keeps its normal real-time rate.
func (c *Controller) Tick() {
	for i := 0; i < 4; i++ {
		c.tickT()
	}
}

func (c *Controller) tickT() {
	before := c.edgeBit()
	c.div++
	after := c.edgeBit()

	if c.reloadPending {
		c.reloadPending = false
		c.tima = c.tma
		c.irq.Request(interrupts.Timer)
		c.reloading = true
	} else if c.reloading {
		c.reloading = false
	}

	if before && !after {
		c.incrementTIMA()
	}
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		// TIMA reads 0x00 until reloadPending is consumed on the next
		// tickT, which is the first T-state of the following Tick.
		c.reloadPending = true
	}
}

// Read implements MMIO reads of DIV/TIMA/TMA/TAC.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case 0xFF04:
		return uint8(c.div >> 8)
	case 0xFF05:
		return c.tima
	case 0xFF06:
		return c.tma
	case 0xFF07:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write implements MMIO writes of DIV/TIMA/TMA/TAC, including the
// write-triggered falling-edge glitches: a DIV or TAC write that clears
// the selected bit mid-count increments TIMA immediately, as if the
// counter had ticked over naturally.
func (c *Controller) Write(addr uint16, value uint8) {
	switch addr {
	case 0xFF04:
		before := c.edgeBit()
		c.div = 0
		if before {
			c.incrementTIMA()
		}
	case 0xFF05:
		if c.reloadPending || c.reloading {
			// a write to TIMA while the reload is pending cancels it (no
			// reload, no interrupt); the written value sticks instead of TMA's.
			c.reloading = false
			c.reloadPending = false
		}
		c.tima = value
	case 0xFF06:
		c.tma = value
		if c.reloading {
			c.tima = value
		}
	case 0xFF07:
		before := c.edgeBit()
		c.tac = value & 0x07
		after := c.edgeBit()
		if before && !after {
			c.incrementTIMA()
		}
	}
}

// Div returns the full 16-bit internal counter, for tests asserting the
// exact internal counter value.
func (c *Controller) Div() uint16 { return c.div }
